// README: Ride handlers for create/get/status/listing.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gocab/internal/modules/pricing"
	"gocab/internal/modules/ride"
	"gocab/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

type createRideReq struct {
	CustomerID     string  `json:"customer_id"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	PickupAddress  string  `json:"pickup_address"`
	DropoffLat     float64 `json:"dropoff_lat"`
	DropoffLng     float64 `json:"dropoff_lng"`
	DropoffAddress string  `json:"dropoff_address"`
	VehicleClass   string  `json:"vehicle_class"`
}

func (h *RideHandler) Create(c *gin.Context) {
	var req createRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" {
		writeError(c, http.StatusBadRequest, "missing customer_id")
		return
	}
	class := pricing.DefaultClass
	if req.VehicleClass != "" {
		var err error
		class, err = pricing.ParseClass(req.VehicleClass)
		if err != nil {
			writeDomainError(c, err)
			return
		}
	}

	r, err := h.rides.Create(c.Request.Context(), ride.CreateCommand{
		CustomerID:     types.ID(req.CustomerID),
		Pickup:         types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Dropoff:        types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		VehicleClass:   class,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *RideHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	r, err := h.rides.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *RideHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	r, err := h.rides.UpdateStatus(c.Request.Context(), types.ID(id), ride.Status(req.Status))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RideHandler) ListByCustomer(c *gin.Context) {
	rides, err := h.rides.ListByCustomer(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"rides": rides})
}

func (h *RideHandler) ListByDriver(c *gin.Context) {
	rides, err := h.rides.ListByDriver(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"rides": rides})
}
