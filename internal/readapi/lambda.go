// Where: internal/readapi/lambda.go
// What: API Gateway (HTTP API) handler for GET /amis.
// Why: The function returns the whole table as a JSON array.
package readapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// Handler serves the read API behind API Gateway.
type Handler struct {
	Records Scanner
}

// HandleHTTP lists the records. Store failures map to 502 with a JSON error body.
func (h Handler) HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str("route", req.RouteKey).Str("path", req.RawPath).Msg("list request")

	docs, err := List(ctx, h.Records)
	if err != nil {
		logger.Error().Err(err).Msg("list records")
		return jsonResponse(http.StatusBadGateway, errorBody{Error: "record store unavailable"})
	}
	logger.Info().Int("count", len(docs)).Msg("listed records")
	return jsonResponse(http.StatusOK, docs)
}

type errorBody struct {
	Error string `json:"error"`
}

func jsonResponse(status int, body any) (events.APIGatewayV2HTTPResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(payload),
	}, nil
}
