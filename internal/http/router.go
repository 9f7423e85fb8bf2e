// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"gocab/internal/http/handlers"
	"gocab/internal/http/middleware"
	"gocab/internal/maps"
	"gocab/internal/modules/location"
	"gocab/internal/modules/pricing"
	"gocab/internal/modules/ride"
)

type RouterDeps struct {
	Rides     *ride.Service
	Pricing   *pricing.Service
	Locations *location.Service
	Geocode   *maps.GeocodeService // optional
	JWTSecret string
	Log       *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.RequestLogger(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	wsHandler := handlers.NewWSHandler(deps.Locations, deps.Log)
	r.GET("/ws/drivers/:id/location", wsHandler.DriverLocation)

	api := r.Group("/api", middleware.Auth(deps.JWTSecret))

	rideHandler := handlers.NewRideHandler(deps.Rides)
	api.POST("/rides", rideHandler.Create)
	api.GET("/rides/:id", rideHandler.Get)
	api.POST("/rides/:id/status", rideHandler.UpdateStatus)
	api.GET("/customers/:id/rides", rideHandler.ListByCustomer)
	api.GET("/drivers/:id/rides", rideHandler.ListByDriver)

	pricingHandler := handlers.NewPricingHandler(deps.Pricing)
	api.GET("/price", pricingHandler.Estimate)

	driverHandler := handlers.NewDriverHandler(deps.Locations)
	api.GET("/drivers/nearby", driverHandler.Nearby)
	api.PUT("/drivers/:id/location", driverHandler.UpdateLocation)

	if deps.Geocode != nil {
		geocodeHandler := handlers.NewGeocodeHandler(deps.Geocode)
		api.GET("/geocode", geocodeHandler.Geocode)
		api.GET("/geocode/reverse", geocodeHandler.ReverseGeocode)
	}

	return r
}
