// README: Driver geo index; in-memory implementation with lock-free reads.
package location

import (
	"context"
	"sync"
	"time"

	"gocab/internal/types"
)

// Index answers "which drivers are near point P" over the live driver
// positions. Implementations must return results ascending by distance with
// ties broken by driver ID, and must never return an error for an empty
// result set.
type Index interface {
	Upsert(ctx context.Context, driverID types.ID, pos types.Point, status string, at time.Time) error
	Nearby(ctx context.Context, center types.Point, radiusMeters float64, limit int) ([]Nearby, error)
	Remove(ctx context.Context, driverID types.ID) error
}

type memoryEntry struct {
	pos     types.Point
	status  string
	updated time.Time
}

// MemoryIndex keeps driver positions in a sync.Map so updates for different
// drivers never serialize against each other and reads walk a lock-free
// snapshot. Updates for the same driver are last-write-wins by timestamp.
type MemoryIndex struct {
	drivers sync.Map // types.ID -> memoryEntry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (ix *MemoryIndex) Upsert(_ context.Context, driverID types.ID, pos types.Point, status string, at time.Time) error {
	if driverID == "" {
		return ErrDriverNotFound
	}
	if !pos.Valid() {
		return ErrInvalidCoordinate
	}
	next := memoryEntry{pos: pos, status: status, updated: at}
	for {
		prev, loaded := ix.drivers.LoadOrStore(driverID, next)
		if !loaded {
			return nil
		}
		cur := prev.(memoryEntry)
		if at.Before(cur.updated) {
			// Stale ping arriving out of order; the newer position stays.
			return nil
		}
		if ix.drivers.CompareAndSwap(driverID, cur, next) {
			return nil
		}
	}
}

func (ix *MemoryIndex) Nearby(_ context.Context, center types.Point, radiusMeters float64, limit int) ([]Nearby, error) {
	if !center.Valid() {
		return nil, ErrInvalidCoordinate
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}

	results := make([]Nearby, 0)
	ix.drivers.Range(func(key, value any) bool {
		e := value.(memoryEntry)
		dist := haversineMeters(center.Lat, center.Lng, e.pos.Lat, e.pos.Lng)
		if dist <= radiusMeters {
			results = append(results, Nearby{
				DriverID:       key.(types.ID),
				Position:       e.pos,
				DistanceMeters: dist,
			})
		}
		return true
	})

	sortNearby(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (ix *MemoryIndex) Remove(_ context.Context, driverID types.ID) error {
	ix.drivers.Delete(driverID)
	return nil
}

// Get returns the live entry for a driver, if present.
func (ix *MemoryIndex) Get(driverID types.ID) (DriverLocation, bool) {
	v, ok := ix.drivers.Load(driverID)
	if !ok {
		return DriverLocation{}, false
	}
	e := v.(memoryEntry)
	return DriverLocation{DriverID: driverID, Position: e.pos, Status: e.status, UpdatedAt: e.updated}, true
}
