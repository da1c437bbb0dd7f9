package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// PingFunc checks a backing store.
type PingFunc func(ctx context.Context) error

// Health reports 200 "ok" while ping succeeds and 503 otherwise.
func Health(ping PingFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.WithError(err).Warn("health check failed")
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
			}
		}
		return c.String(http.StatusOK, "ok")
	}
}
