// Where: cmd/get-ami/main.go
// What: Lambda entrypoint for GET /amis.
// Why: Serve the catalog behind API Gateway.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/poruru/ami-catalog/internal/awsclient"
	"github.com/poruru/ami-catalog/internal/config"
	"github.com/poruru/ami-catalog/internal/logging"
	"github.com/poruru/ami-catalog/internal/readapi"
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

	handler := readapi.Handler{Records: store.New(clients.DynamoDB, settings.Table)}
	lambda.Start(func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handler.HandleHTTP(logging.WithLambdaContext(ctx), req)
	})
}
