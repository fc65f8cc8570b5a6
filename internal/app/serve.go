// Where: internal/app/serve.go
// What: `amis serve` command.
// Why: Browse the catalog over HTTP without deploying the API.
package app

import (
	"fmt"
	"io"

	"github.com/poruru/ami-catalog/internal/readapi"
)

type ServeCmd struct {
	Port int `default:"8080" help:"Listen port"`
}

func runServe(cli CLI, deps Dependencies, out io.Writer) int {
	settings, err := prepare(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := settings.RequireTable(); err != nil {
		return exitWithError(out, err)
	}
	svc, err := deps.services(settings)
	if err != nil {
		return exitWithError(out, err)
	}

	serve := deps.Serve
	if serve == nil {
		serve = readapi.Serve
	}
	fmt.Fprintf(out, "Serving %s on http://localhost:%d/amis\n", settings.Table, cli.Serve.Port)
	if err := serve(deps.Context, readapi.NewServer(svc.Records), cli.Serve.Port); err != nil {
		return exitWithError(out, err)
	}
	return 0
}
