// README: Price estimation endpoint.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gocab/internal/modules/pricing"
	"gocab/internal/types"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

// Estimate handles GET /api/price. The vehicle class defaults to CAR when
// absent; an unknown class is rejected.
func (h *PricingHandler) Estimate(c *gin.Context) {
	pickup, ok := pointQuery(c, "pickup_lat", "pickup_lng")
	if !ok {
		return
	}
	dropoff, ok := pointQuery(c, "dropoff_lat", "dropoff_lng")
	if !ok {
		return
	}

	class := pricing.DefaultClass
	if raw := c.Query("vehicle_class"); raw != "" {
		var err error
		class, err = pricing.ParseClass(raw)
		if err != nil {
			writeDomainError(c, err)
			return
		}
	}

	quote, err := h.pricing.Estimate(c.Request.Context(), pickup, dropoff, class)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, quote)
}

// pointQuery parses a lat/lng pair from query params, writing a 400 itself
// when either value is missing or malformed.
func pointQuery(c *gin.Context, latKey, lngKey string) (types.Point, bool) {
	lat, err := strconv.ParseFloat(c.Query(latKey), 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid "+latKey)
		return types.Point{}, false
	}
	lng, err := strconv.ParseFloat(c.Query(lngKey), 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid "+lngKey)
		return types.Point{}, false
	}
	p := types.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		writeError(c, http.StatusBadRequest, "coordinate out of range")
		return types.Point{}, false
	}
	return p, true
}
