package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"gocab/internal/types"
)

// Profile is the travel mode used for route resolution.
type Profile string

const (
	ProfileDriving Profile = "driving"
	ProfileWalking Profile = "walking"
	ProfileCycling Profile = "cycling"
)

// RouteMetrics is the result of resolving a route between two coordinates.
// Geometry is an encoded polyline; it is empty when the metrics come from the
// straight-line fallback.
type RouteMetrics struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Geometry        string  `json:"geometry,omitempty"`
}

// errNoRoute marks a provider response that contained zero usable routes.
var errNoRoute = errors.New("no route found")

// Provider is the external routing service. Implementations are expected to
// be fallible and possibly slow; the Resolver handles both.
type Provider interface {
	Directions(ctx context.Context, origin, destination types.Point, profile Profile) (RouteMetrics, error)
}

// GoogleProvider resolves routes through the Google Maps Directions API.
type GoogleProvider struct {
	client *maps.Client
}

// NewGoogleProvider creates a provider with the given API key.
func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Directions(ctx context.Context, origin, destination types.Point, profile Profile) (RouteMetrics, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        travelMode(profile),
	}

	routes, _, err := p.client.Directions(ctx, r)
	if err != nil {
		return RouteMetrics{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteMetrics{}, errNoRoute
	}

	leg := routes[0].Legs[0]
	return RouteMetrics{
		DistanceMeters:  float64(leg.Distance.Meters),
		DurationSeconds: leg.Duration.Seconds(),
		Geometry:        routes[0].OverviewPolyline.Points,
	}, nil
}

func travelMode(profile Profile) maps.Mode {
	switch profile {
	case ProfileWalking:
		return maps.TravelModeWalking
	case ProfileCycling:
		return maps.TravelModeBicycling
	default:
		return maps.TravelModeDriving
	}
}
