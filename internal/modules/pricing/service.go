// README: Pricing service computes deterministic fares from route metrics.
package pricing

import (
	"context"
	"fmt"
	"math"

	"gocab/internal/maps"
	"gocab/internal/types"
)

// Routes supplies trip metrics. Implemented by the maps Resolver, which
// always answers for valid numeric input.
type Routes interface {
	Resolve(ctx context.Context, origin, destination types.Point, profile maps.Profile) maps.RouteMetrics
}

// PriceFor computes the fare for a distance and vehicle class. It is a pure
// function: no I/O, no shared state, safe for concurrent use. The fare is
// rounded half-up to two decimal places and returned in minor units.
func PriceFor(distanceKm float64, class Class) (types.Money, error) {
	rate, ok := ratePerKm[class]
	if !ok {
		return types.Money{}, fmt.Errorf("%w: %q", ErrUnsupportedClass, class)
	}
	cents := int64(math.Round(distanceKm * rate * 100))
	return types.Money{Amount: cents, Currency: currency}, nil
}

type Service struct {
	routes Routes
}

func NewService(routes Routes) *Service {
	return &Service{routes: routes}
}

// Estimate resolves the trip and prices it for the given class. Distance and
// duration always resolve (via the resolver's fallback); the only failure
// mode is an unsupported class.
func (s *Service) Estimate(ctx context.Context, pickup, dropoff types.Point, class Class) (Quote, error) {
	m := s.routes.Resolve(ctx, pickup, dropoff, maps.ProfileDriving)
	distanceKm := m.DistanceMeters / 1000

	fare, err := PriceFor(distanceKm, class)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		DistanceKm:  distanceKm,
		DurationMin: m.DurationSeconds / 60,
		Fare:        fare,
	}, nil
}
