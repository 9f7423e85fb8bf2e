// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gocab/internal/modules/location"
	"gocab/internal/modules/matching"
	"gocab/internal/modules/pricing"
	"gocab/internal/modules/ride"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinel errors onto HTTP status codes.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrBadRequest),
		errors.Is(err, pricing.ErrUnsupportedClass),
		errors.Is(err, location.ErrInvalidCoordinate):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrNotFound),
		errors.Is(err, location.ErrDriverNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, matching.ErrNoDrivers),
		errors.Is(err, ride.ErrInvalidTransition),
		errors.Is(err, ride.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
