package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"gocab/internal/types"
)

var ErrAddressNotFound = errors.New("address not found")

// GeocodeResult pairs a resolved coordinate with its formatted address.
type GeocodeResult struct {
	Position types.Point `json:"position"`
	Address  string      `json:"address"`
}

// GeocodeService handles forward and reverse geocoding through Google Maps.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a new GeocodeService with the given API key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// Geocode resolves a free-form address to a coordinate.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return GeocodeResult{}, ErrAddressNotFound
	}

	loc := results[0].Geometry.Location
	return GeocodeResult{
		Position: types.Point{Lat: loc.Lat, Lng: loc.Lng},
		Address:  results[0].FormattedAddress,
	}, nil
}

// ReverseGeocode resolves a coordinate to the closest known address.
func (s *GeocodeService) ReverseGeocode(ctx context.Context, p types.Point) (GeocodeResult, error) {
	results, err := s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
	})
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return GeocodeResult{}, ErrAddressNotFound
	}

	return GeocodeResult{
		Position: p,
		Address:  results[0].FormattedAddress,
	}, nil
}
