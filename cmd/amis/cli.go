// Where: cmd/amis/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"os"

	"github.com/poruru/ami-catalog/internal/app"
	"github.com/poruru/ami-catalog/internal/awsclient"
	"github.com/poruru/ami-catalog/internal/config"
	"github.com/poruru/ami-catalog/internal/notification"
	"github.com/poruru/ami-catalog/internal/store"
)

var newClients = awsclient.New

// buildDependencies constructs the runtime dependencies required by the CLI.
// AWS clients are built lazily, once the command's settings are resolved.
func buildDependencies(ctx context.Context) app.Dependencies {
	return app.Dependencies{
		Context:  ctx,
		Out:      os.Stdout,
		ErrOut:   os.Stderr,
		Services: newServices,
	}
}

func newServices(ctx context.Context, settings config.Settings) (app.Services, error) {
	clients, err := newClients(ctx, settings)
	if err != nil {
		return app.Services{}, err
	}
	return app.Services{
		Records:  store.New(clients.DynamoDB, settings.Table),
		Archives: clients.S3,
		Tables:   clients.DynamoDB,
		Notifications: &notification.Manager{
			S3:     clients.S3,
			Lambda: clients.Lambda,
		},
	}, nil
}
