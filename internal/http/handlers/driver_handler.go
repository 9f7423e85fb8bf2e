// README: Driver location ingest and nearby-driver search.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gocab/internal/modules/location"
	"gocab/internal/types"
)

type DriverHandler struct {
	locations *location.Service
}

func NewDriverHandler(svc *location.Service) *DriverHandler {
	return &DriverHandler{locations: svc}
}

type updateLocationReq struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Status string  `json:"status"`
}

// UpdateLocation handles PUT /api/drivers/:id/location.
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req updateLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	driverID := types.ID(c.Param("id"))
	pos := types.Point{Lat: req.Lat, Lng: req.Lng}
	if err := h.locations.UpdateLocation(c.Request.Context(), driverID, pos, req.Status); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"driver_id": driverID, "lat": pos.Lat, "lng": pos.Lng})
}

// Nearby handles GET /api/drivers/nearby. Radius defaults to the dispatch
// radius when absent.
func (h *DriverHandler) Nearby(c *gin.Context) {
	center, ok := pointQuery(c, "lat", "lng")
	if !ok {
		return
	}

	radius := location.DefaultRadiusMeters
	if raw := c.Query("radius_m"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			writeError(c, http.StatusBadRequest, "invalid radius_m")
			return
		}
		radius = v
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = v
	}

	drivers, err := h.locations.FindNearby(c.Request.Context(), center, radius, limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"drivers": drivers})
}
