// README: Ride service ties dispatch, routing, and pricing into the lifecycle.
package ride

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gocab/internal/modules/matching"
	"gocab/internal/modules/pricing"
	"gocab/internal/types"
)

// Dispatcher selects a driver for a pickup point.
type Dispatcher interface {
	SelectDriver(ctx context.Context, pickup types.Point, radiusMeters float64) (matching.Selection, error)
}

// Quoter prices a trip for a vehicle class.
type Quoter interface {
	Estimate(ctx context.Context, pickup, dropoff types.Point, class pricing.Class) (pricing.Quote, error)
}

// Store is the persistence collaborator. UpdateStatus must be a compare-and-
// swap on (status, version) so concurrent transitions cannot double-apply.
type Store interface {
	Create(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id types.ID) (*Ride, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
	ListByCustomer(ctx context.Context, customerID types.ID) ([]*Ride, error)
	ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error)
}

// Events receives lifecycle notifications. Publishing is best effort and
// never fails a ride operation.
type Events interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Service struct {
	store    Store
	dispatch Dispatcher
	quote    Quoter
	events   Events
	log      *slog.Logger
}

// NewService wires the ride lifecycle. events may be nil.
func NewService(store Store, dispatch Dispatcher, quote Quoter, events Events, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, dispatch: dispatch, quote: quote, events: events, log: log}
}

type CreateCommand struct {
	CustomerID     types.ID
	Pickup         types.Point
	Dropoff        types.Point
	PickupAddress  string
	DropoffAddress string
	VehicleClass   pricing.Class
}

// Create selects a driver, prices the trip, and emits a new ride in PENDING
// with the fare attached. Nothing is written until every sub-computation has
// succeeded, so a failed create leaves no partial ride behind.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	if cmd.CustomerID == "" {
		return nil, fmt.Errorf("%w: missing customer id", ErrBadRequest)
	}
	if !cmd.Pickup.Valid() {
		return nil, fmt.Errorf("%w: invalid pickup coordinate", ErrBadRequest)
	}
	if !cmd.Dropoff.Valid() {
		return nil, fmt.Errorf("%w: invalid dropoff coordinate", ErrBadRequest)
	}

	sel, err := s.dispatch.SelectDriver(ctx, cmd.Pickup, 0)
	if err != nil {
		return nil, err
	}

	quote, err := s.quote.Estimate(ctx, cmd.Pickup, cmd.Dropoff, cmd.VehicleClass)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &Ride{
		ID:             newID(),
		CustomerID:     cmd.CustomerID,
		DriverID:       sel.DriverID,
		VehicleClass:   cmd.VehicleClass,
		Status:         StatusPending,
		Fare:           quote.Fare,
		Pickup:         cmd.Pickup,
		Dropoff:        cmd.Dropoff,
		PickupAddress:  cmd.PickupAddress,
		DropoffAddress: cmd.DropoffAddress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("persisting ride: %w", err)
	}

	s.log.Info("ride created",
		"ride_id", r.ID, "customer_id", r.CustomerID, "driver_id", r.DriverID,
		"fare", r.Fare.String(), "distance_km", quote.DistanceKm)
	s.publish(ctx, "ride.created", r)
	return r, nil
}

// UpdateStatus applies one lifecycle transition. Illegal transitions fail
// with ErrInvalidTransition and leave the ride unchanged; a legal one bumps
// UpdatedAt and nothing else.
func (s *Service) UpdateStatus(ctx context.Context, rideID types.ID, target Status) (*Ride, error) {
	if _, err := ParseStatus(string(target)); err != nil {
		return nil, err
	}

	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, target)
	}

	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, target, r.StatusVersion)
	if err != nil {
		return nil, fmt.Errorf("updating ride status: %w", err)
	}
	if !ok {
		return nil, ErrConflict
	}

	updated, err := s.store.Get(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("ride status changed", "ride_id", r.ID, "from", r.Status, "to", target)
	s.publish(ctx, "ride.status."+strings.ToLower(string(target)), updated)
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID types.ID) ([]*Ride, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

func (s *Service) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	return s.store.ListByDriver(ctx, driverID)
}

func (s *Service) publish(ctx context.Context, key string, r *Ride) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, r); err != nil {
		s.log.Warn("ride event publish failed", "routing_key", key, "ride_id", r.ID, "err", err)
	}
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
