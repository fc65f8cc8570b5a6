// Where: internal/readapi/server.go
// What: Local HTTP mirror of the read API.
// Why: `amis serve` exposes the same listing without API Gateway.
package readapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

// NewServer returns an echo router with GET /amis and GET /health.
func NewServer(records Scanner) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet},
	}))
	e.Use(requestLogger)

	e.GET("/amis", func(c echo.Context) error {
		docs, err := List(c.Request().Context(), records)
		if err != nil {
			log.Error().Err(err).Msg("list records")
			return c.JSON(http.StatusBadGateway, errorBody{Error: "record store unavailable"})
		}
		return c.JSON(http.StatusOK, docs)
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		log.Debug().
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", c.Response().Status).
			Msg("request")
		return err
	}
}

// Serve runs the server on port until ctx is cancelled.
func Serve(ctx context.Context, e *echo.Echo, port int) error {
	addr := net.JoinHostPort("0.0.0.0", strconv.Itoa(port))
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()
	log.Info().Str("addr", addr).Msg("serving records")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return e.Shutdown(context.Background())
	}
}
