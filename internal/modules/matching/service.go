// README: Matching service selects the closest available driver for a pickup.
package matching

import (
	"context"
	"errors"
	"fmt"

	"gocab/internal/modules/location"
	"gocab/internal/types"
)

var ErrNoDrivers = errors.New("no drivers available")

// NearbyFinder is the geo index view the dispatcher needs.
type NearbyFinder interface {
	Nearby(ctx context.Context, center types.Point, radiusMeters float64, limit int) ([]location.Nearby, error)
}

// Selection is the chosen driver for a ride request.
type Selection struct {
	DriverID       types.ID
	Position       types.Point
	DistanceMeters float64
}

// Service is a pure selection function over the current index snapshot. It
// holds no reservation: double-booking prevention belongs to ride creation.
type Service struct {
	index         NearbyFinder
	defaultRadius float64
}

func NewService(index NearbyFinder, defaultRadiusMeters float64) *Service {
	if defaultRadiusMeters <= 0 {
		defaultRadiusMeters = location.DefaultRadiusMeters
	}
	return &Service{index: index, defaultRadius: defaultRadiusMeters}
}

// SelectDriver returns the closest driver to the pickup point within
// radiusMeters (the configured default when <= 0). An empty index or an
// empty radius is ErrNoDrivers, never a fabricated placeholder.
func (s *Service) SelectDriver(ctx context.Context, pickup types.Point, radiusMeters float64) (Selection, error) {
	if radiusMeters <= 0 {
		radiusMeters = s.defaultRadius
	}
	candidates, err := s.index.Nearby(ctx, pickup, radiusMeters, 1)
	if err != nil {
		return Selection{}, fmt.Errorf("querying geo index: %w", err)
	}
	if len(candidates) == 0 {
		return Selection{}, ErrNoDrivers
	}
	c := candidates[0]
	return Selection{DriverID: c.DriverID, Position: c.Position, DistanceMeters: c.DistanceMeters}, nil
}
