// README: Location service validates driver pings, feeds the geo index, and samples snapshots.
package location

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"gocab/internal/types"
)

// Directory answers whether a driver is registered. Registration itself lives
// with the identity collaborator.
type Directory interface {
	DriverExists(ctx context.Context, driverID types.ID) (bool, error)
}

// Snapshots persists sampled location updates.
type Snapshots interface {
	AppendSnapshot(ctx context.Context, snap Snapshot) error
}

type Service struct {
	index Index
	dir   Directory
	snaps Snapshots
	every int64 // persist every Nth update per driver; 0 disables
	log   *slog.Logger

	updates atomic.Int64
}

// NewService wires the live index with optional directory checks and snapshot
// persistence. dir and snaps may be nil.
func NewService(index Index, dir Directory, snaps Snapshots, snapshotEach int, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{index: index, dir: dir, snaps: snaps, every: int64(snapshotEach), log: log}
}

// UpdateLocation records a driver's current position. A newer update for the
// same driver supersedes the previous one; no history is kept in the index.
func (s *Service) UpdateLocation(ctx context.Context, driverID types.ID, pos types.Point, status string) error {
	if driverID == "" {
		return ErrDriverNotFound
	}
	if !pos.Valid() {
		return fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidCoordinate, pos.Lat, pos.Lng)
	}
	if s.dir != nil {
		ok, err := s.dir.DriverExists(ctx, driverID)
		if err != nil {
			return fmt.Errorf("driver lookup: %w", err)
		}
		if !ok {
			return ErrDriverNotFound
		}
	}

	now := time.Now().UTC()
	if err := s.index.Upsert(ctx, driverID, pos, status, now); err != nil {
		return err
	}

	if s.snaps != nil && s.every > 0 && s.updates.Add(1)%s.every == 0 {
		snap := Snapshot{DriverID: driverID, Position: pos, Status: status, RecordedAt: now}
		if err := s.snaps.AppendSnapshot(ctx, snap); err != nil {
			// Snapshots are best effort; the live index already has the update.
			s.log.Warn("location snapshot failed", "driver_id", driverID, "err", err)
		}
	}
	return nil
}

// FindNearby returns drivers within radiusMeters of center, closest first.
// An empty result is not an error.
func (s *Service) FindNearby(ctx context.Context, center types.Point, radiusMeters float64, limit int) ([]Nearby, error) {
	return s.index.Nearby(ctx, center, radiusMeters, limit)
}

// RemoveDriver drops a driver from the live index, e.g. when going offline.
func (s *Service) RemoveDriver(ctx context.Context, driverID types.ID) error {
	return s.index.Remove(ctx, driverID)
}
