// Where: internal/app/services.go
// What: AWS-backed services used by the CLI commands.
// Why: Commands depend on narrow interfaces so tests can swap in fakes.
package app

import (
	"context"
	"errors"

	"github.com/poruru/ami-catalog/internal/artifacts"
	"github.com/poruru/ami-catalog/internal/config"
	"github.com/poruru/ami-catalog/internal/notification"
	"github.com/poruru/ami-catalog/internal/pipeline"
	"github.com/poruru/ami-catalog/internal/readapi"
	"github.com/poruru/ami-catalog/internal/store"
)

// ErrServicesNil is returned when no service factory is configured.
var ErrServicesNil = errors.New("service factory is nil")

// RecordStore reads and writes AMI records.
type RecordStore interface {
	pipeline.RecordStore
	readapi.Scanner
}

// Services are the clients a command may use.
type Services struct {
	Records       RecordStore
	Archives      artifacts.S3API
	Tables        store.TableAPI
	Notifications *notification.Manager
}

// ServiceFactory builds Services for the resolved settings.
type ServiceFactory func(ctx context.Context, settings config.Settings) (Services, error)

func (d Dependencies) services(settings config.Settings) (Services, error) {
	if d.Services == nil {
		return Services{}, ErrServicesNil
	}
	return d.Services(d.Context, settings)
}
