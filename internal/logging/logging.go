// Where: internal/logging/logging.go
// What: zerolog setup for the functions and the CLI.
// Why: Every package logs through the global zerolog logger or log.Ctx.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Setup configures the global logger to write to w at level in format.
// An empty level means info; an empty format means JSON.
func Setup(w io.Writer, level, format string) error {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	out := w
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
	case FormatConsole:
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return fmt.Errorf("unsupported log format: %s", format)
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return nil
}

// WithLambdaContext returns ctx carrying a logger tagged with the invocation's request id.
func WithLambdaContext(ctx context.Context) context.Context {
	logger := log.Logger.With()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.Str("request_id", lc.AwsRequestID)
	}
	if lambdacontext.FunctionName != "" {
		logger = logger.Str("function", lambdacontext.FunctionName)
	}
	return logger.Logger().WithContext(ctx)
}
