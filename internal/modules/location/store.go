// README: Location stores backed by Redis GEO (live index) and Postgres (snapshots).
package location

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"gocab/internal/types"
)

const driverGeoKey = "location:drivers"

// GeoStore is the Redis GEO-backed Index implementation. GEOADD is already
// last-write-wins per member, so no version guard is needed here.
type GeoStore struct {
	redis *redis.Client
}

func NewGeoStore(client *redis.Client) *GeoStore {
	return &GeoStore{redis: client}
}

func (s *GeoStore) Upsert(ctx context.Context, driverID types.ID, pos types.Point, status string, _ time.Time) error {
	if driverID == "" {
		return ErrDriverNotFound
	}
	if !pos.Valid() {
		return ErrInvalidCoordinate
	}
	return s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (s *GeoStore) Nearby(ctx context.Context, center types.Point, radiusMeters float64, limit int) ([]Nearby, error) {
	if !center.Valid() {
		return nil, ErrInvalidCoordinate
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	locs, err := s.redis.GeoSearchLocation(ctx, driverGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Lng,
			Latitude:   center.Lat,
			Radius:     radiusMeters,
			RadiusUnit: "m",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}

	results := make([]Nearby, len(locs))
	for i, l := range locs {
		results[i] = Nearby{
			DriverID:       types.ID(l.Name),
			Position:       types.Point{Lat: l.Latitude, Lng: l.Longitude},
			DistanceMeters: l.Dist,
		}
	}
	// Redis orders by distance but leaves equal distances unordered; re-sort
	// for the deterministic tie-break on driver ID.
	sortNearby(results)
	return results, nil
}

func (s *GeoStore) Remove(ctx context.Context, driverID types.ID) error {
	return s.redis.ZRem(ctx, driverGeoKey, string(driverID)).Err()
}

// Store persists location snapshots and answers driver-directory lookups in
// Postgres. Durability is the database's concern, not the index's.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) AppendSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO location_snapshots (driver_id, lat, lng, status, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(snap.DriverID),
		snap.Position.Lat, snap.Position.Lng,
		snap.Status,
		snap.RecordedAt,
	)
	return err
}

func (s *Store) DriverExists(ctx context.Context, driverID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1)`, string(driverID))
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
