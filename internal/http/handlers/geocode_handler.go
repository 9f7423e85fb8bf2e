// README: Forward and reverse geocoding endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gocab/internal/maps"
)

type GeocodeHandler struct {
	geo *maps.GeocodeService
}

func NewGeocodeHandler(svc *maps.GeocodeService) *GeocodeHandler {
	return &GeocodeHandler{geo: svc}
}

// Geocode handles GET /api/geocode?address=...
func (h *GeocodeHandler) Geocode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		writeError(c, http.StatusBadRequest, "missing address")
		return
	}

	res, err := h.geo.Geocode(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, maps.ErrAddressNotFound) {
			writeError(c, http.StatusNotFound, "address not found")
			return
		}
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// ReverseGeocode handles GET /api/geocode/reverse?lat=...&lng=...
func (h *GeocodeHandler) ReverseGeocode(c *gin.Context) {
	p, ok := pointQuery(c, "lat", "lng")
	if !ok {
		return
	}

	res, err := h.geo.ReverseGeocode(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, maps.ErrAddressNotFound) {
			writeError(c, http.StatusNotFound, "address not found")
			return
		}
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
