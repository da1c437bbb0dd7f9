// Package handler exposes the HTTP handlers of the catalog API: public genre
// and movie reads, admin edits and account endpoints.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-catalog/internal/service"
)

// respondError writes err as a JSON error with the matching status code.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
	}
	log.WithError(err).WithFields(log.Fields{
		"method": c.Request().Method,
		"route":  c.Path(),
	}).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
