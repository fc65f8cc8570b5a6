// Where: cmd/amis/main.go
// What: CLI entrypoint.
// Why: Execute amis commands with configured dependencies.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/poruru/ami-catalog/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Run(os.Args[1:], buildDependencies(ctx))
	stop()
	os.Exit(code)
}
