// Where: cmd/put-ami/main.go
// What: Lambda entrypoint for S3 upload events.
// Why: Record each built AMI when its artifacts land in the bucket.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/poruru/ami-catalog/internal/artifacts"
	"github.com/poruru/ami-catalog/internal/awsclient"
	"github.com/poruru/ami-catalog/internal/config"
	"github.com/poruru/ami-catalog/internal/logging"
	"github.com/poruru/ami-catalog/internal/pipeline"
	"github.com/poruru/ami-catalog/internal/store"
	"github.com/rs/zerolog/log"
)

func main() {
	settings := config.FromEnv()
	if err := logging.Setup(os.Stdout, settings.LogLevel, settings.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("configure logging")
	}
	if err := settings.RequireTable(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	clients, err := awsclient.New(context.Background(), settings)
	if err != nil {
		log.Fatal().Err(err).Msg("create aws clients")
	}

	driver := pipeline.Driver{
		Files: artifacts.S3Source{Client: clients.S3},
		Store: store.New(clients.DynamoDB, settings.Table),
	}
	lambda.Start(func(ctx context.Context, event events.S3Event) error {
		return driver.HandleS3Event(logging.WithLambdaContext(ctx), event)
	})
}
