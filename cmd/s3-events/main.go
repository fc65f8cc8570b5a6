// Where: cmd/s3-events/main.go
// What: Lambda entrypoint for the Custom::S3LambdaNotification resource.
// Why: Attach the put function to buckets created outside the stack.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/poruru/ami-catalog/internal/awsclient"
	"github.com/poruru/ami-catalog/internal/config"
	"github.com/poruru/ami-catalog/internal/logging"
	"github.com/poruru/ami-catalog/internal/notification"
	"github.com/rs/zerolog/log"
)

func main() {
	settings := config.FromEnv()
	if err := logging.Setup(os.Stdout, settings.LogLevel, settings.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("configure logging")
	}

	handler := notification.Handler{NewManager: managerFactory(settings)}
	lambda.Start(cfn.LambdaWrap(func(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
		return handler.Handle(logging.WithLambdaContext(ctx), event)
	}))
}

// managerFactory builds clients in the region named by the resource properties.
func managerFactory(base config.Settings) notification.ManagerFactory {
	return func(ctx context.Context, region, accountID string) (*notification.Manager, error) {
		settings := base
		if region != "" {
			settings.Region = region
		}
		clients, err := awsclient.New(ctx, settings)
		if err != nil {
			return nil, err
		}
		return &notification.Manager{
			S3:        clients.S3,
			Lambda:    clients.Lambda,
			AccountID: accountID,
		}, nil
	}
}
