// README: Ride store backed by PostgreSQL with optimistic status updates.
package ride

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gocab/internal/types"
)

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO rides (
			id, customer_id, driver_id, vehicle_class, status, status_version,
			fare_amount, fare_currency,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			pickup_address, dropoff_address,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8,
			$9, $10, $11, $12,
			$13, $14,
			$15, $16
		)`,
		string(r.ID),
		string(r.CustomerID),
		string(r.DriverID),
		string(r.VehicleClass),
		string(r.Status),
		r.StatusVersion,
		r.Fare.Amount, r.Fare.Currency,
		r.Pickup.Lat, r.Pickup.Lng,
		r.Dropoff.Lat, r.Dropoff.Lng,
		r.PickupAddress, r.DropoffAddress,
		r.CreatedAt, r.UpdatedAt,
	)
	return err
}

const rideColumns = `
	id, customer_id, driver_id, vehicle_class, status, status_version,
	fare_amount, fare_currency,
	pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
	pickup_address, dropoff_address,
	created_at, updated_at`

func (s *PgStore) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, string(id))
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PgStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    status_version = status_version + 1,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PgStore) ListByCustomer(ctx context.Context, customerID types.ID) ([]*Ride, error) {
	return s.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE customer_id = $1 ORDER BY created_at DESC`, string(customerID))
}

func (s *PgStore) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	return s.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`, string(driverID))
}

func (s *PgStore) list(ctx context.Context, query string, arg any) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, r)
	}
	return rides, rows.Err()
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	err := row.Scan(
		&r.ID, &r.CustomerID, &r.DriverID, &r.VehicleClass, &r.Status, &r.StatusVersion,
		&r.Fare.Amount, &r.Fare.Currency,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.Dropoff.Lat, &r.Dropoff.Lng,
		&r.PickupAddress, &r.DropoffAddress,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
