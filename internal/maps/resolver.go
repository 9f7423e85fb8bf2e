// Package maps resolves trip distance and duration, degrading to a local
// straight-line estimate when the routing provider cannot answer.
package maps

import (
	"context"
	"log/slog"
	"math"
	"time"

	"gocab/internal/types"
)

const (
	// fallbackSecondsPerKm is the synthetic pace used when the provider is
	// unavailable: 3 minutes per kilometre.
	fallbackSecondsPerKm = 180.0

	// Conservative metrics returned for syntactically invalid coordinates:
	// 1 km, 5 minutes. Callers needing strict validation pre-validate.
	defaultDistanceMeters  = 1000.0
	defaultDurationSeconds = 300.0

	// DefaultProviderTimeout bounds the single provider attempt.
	DefaultProviderTimeout = 5 * time.Second
)

// Resolver answers route queries. A provider failure of any kind (error,
// timeout, zero routes, malformed metrics) is absorbed by the haversine
// fallback, so valid numeric input always yields usable metrics.
type Resolver struct {
	provider Provider
	timeout  time.Duration
	log      *slog.Logger
}

// NewResolver wraps a provider. provider may be nil, in which case every
// query takes the fallback path.
func NewResolver(provider Provider, timeout time.Duration, log *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{provider: provider, timeout: timeout, log: log}
}

// Resolve returns metrics for the trip from origin to destination. It never
// fails: invalid coordinates produce the documented conservative defaults,
// and provider trouble produces the straight-line fallback.
func (r *Resolver) Resolve(ctx context.Context, origin, destination types.Point, profile Profile) RouteMetrics {
	if !origin.Valid() || !destination.Valid() {
		r.log.Warn("route query with invalid coordinates, returning defaults",
			"origin", origin, "destination", destination)
		return RouteMetrics{
			DistanceMeters:  defaultDistanceMeters,
			DurationSeconds: defaultDurationSeconds,
		}
	}

	if r.provider != nil {
		pctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		m, err := r.provider.Directions(pctx, origin, destination, profile)
		if err == nil && usable(m) {
			return m
		}
		r.log.Warn("routing provider unavailable, using straight-line fallback", "err", err)
	}

	return r.fallback(origin, destination)
}

func (r *Resolver) fallback(origin, destination types.Point) RouteMetrics {
	dist := haversineMeters(origin, destination)
	return RouteMetrics{
		DistanceMeters:  dist,
		DurationSeconds: dist / 1000 * fallbackSecondsPerKm,
	}
}

func usable(m RouteMetrics) bool {
	return m.DistanceMeters >= 0 && m.DurationSeconds >= 0 &&
		!math.IsNaN(m.DistanceMeters) && !math.IsNaN(m.DurationSeconds)
}

func haversineMeters(a, b types.Point) float64 {
	const earthRadiusMeters = 6371000.0
	lat1 := a.Lat * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	dlat := (b.Lat - a.Lat) * math.Pi / 180.0
	dlng := (b.Lng - a.Lng) * math.Pi / 180.0
	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
