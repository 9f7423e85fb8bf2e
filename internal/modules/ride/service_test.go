package ride

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gocab/internal/modules/matching"
	"gocab/internal/modules/pricing"
	"gocab/internal/types"
)

// memStore is an in-memory Store with the same compare-and-swap semantics as
// the Postgres implementation.
type memStore struct {
	mu    sync.Mutex
	rides map[types.ID]*Ride
}

func newMemStore() *memStore {
	return &memStore{rides: make(map[types.ID]*Ride)}
}

func (m *memStore) Create(_ context.Context, r *Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.rides[r.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok || r.Status != from || r.StatusVersion != version {
		return false, nil
	}
	r.Status = to
	r.StatusVersion++
	r.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *memStore) ListByCustomer(_ context.Context, customerID types.ID) ([]*Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Ride
	for _, r := range m.rides {
		if r.CustomerID == customerID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) ListByDriver(_ context.Context, driverID types.ID) ([]*Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Ride
	for _, r := range m.rides {
		if r.DriverID == driverID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rides)
}

type mockDispatcher struct {
	sel matching.Selection
	err error
}

func (m *mockDispatcher) SelectDriver(context.Context, types.Point, float64) (matching.Selection, error) {
	return m.sel, m.err
}

type mockQuoter struct {
	quote pricing.Quote
	err   error
}

func (m *mockQuoter) Estimate(_ context.Context, _, _ types.Point, class pricing.Class) (pricing.Quote, error) {
	if m.err != nil {
		return pricing.Quote{}, m.err
	}
	return m.quote, nil
}

type recordingEvents struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (e *recordingEvents) Publish(_ context.Context, key string, _ any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keys = append(e.keys, key)
	return e.err
}

var (
	pickup  = types.Point{Lat: 10.77, Lng: 106.70}
	dropoff = types.Point{Lat: 10.80, Lng: 106.72}
)

func okDeps() (*memStore, *mockDispatcher, *mockQuoter) {
	store := newMemStore()
	disp := &mockDispatcher{sel: matching.Selection{DriverID: "driver1", DistanceMeters: 150}}
	quote := &mockQuoter{quote: pricing.Quote{
		DistanceKm:  5.0,
		DurationMin: 15,
		Fare:        types.Money{Amount: 500, Currency: "USD"},
	}}
	return store, disp, quote
}

func TestCreate_HappyPath(t *testing.T) {
	store, disp, quote := okDeps()
	events := &recordingEvents{}
	svc := NewService(store, disp, quote, events, nil)

	r, err := svc.Create(context.Background(), CreateCommand{
		CustomerID:   "cust1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: pricing.ClassCar,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if r.Status != StatusPending {
		t.Errorf("status = %s, want PENDING", r.Status)
	}
	if r.DriverID != "driver1" {
		t.Errorf("driver = %s, want driver1", r.DriverID)
	}
	if r.Fare.Amount != 500 {
		t.Errorf("fare = %d, want 500", r.Fare.Amount)
	}
	if r.CreatedAt.IsZero() || !r.UpdatedAt.Equal(r.CreatedAt) {
		t.Errorf("timestamps not initialized: created=%v updated=%v", r.CreatedAt, r.UpdatedAt)
	}

	stored, err := store.Get(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("ride not persisted: %v", err)
	}
	if stored.Status != StatusPending {
		t.Errorf("persisted status = %s", stored.Status)
	}
	if len(events.keys) != 1 || events.keys[0] != "ride.created" {
		t.Errorf("events = %v, want [ride.created]", events.keys)
	}
}

func TestCreate_NoDriversProducesNoRide(t *testing.T) {
	store, _, quote := okDeps()
	disp := &mockDispatcher{err: matching.ErrNoDrivers}
	svc := NewService(store, disp, quote, nil, nil)

	_, err := svc.Create(context.Background(), CreateCommand{
		CustomerID:   "cust1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: pricing.ClassCar,
	})
	if !errors.Is(err, matching.ErrNoDrivers) {
		t.Fatalf("Create() error = %v, want ErrNoDrivers", err)
	}
	if store.count() != 0 {
		t.Error("failed create must not persist a ride")
	}
}

func TestCreate_UnsupportedClassProducesNoRide(t *testing.T) {
	store, disp, _ := okDeps()
	quote := &mockQuoter{err: pricing.ErrUnsupportedClass}
	svc := NewService(store, disp, quote, nil, nil)

	_, err := svc.Create(context.Background(), CreateCommand{
		CustomerID:   "cust1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: "SCOOTER",
	})
	if !errors.Is(err, pricing.ErrUnsupportedClass) {
		t.Fatalf("Create() error = %v, want ErrUnsupportedClass", err)
	}
	if store.count() != 0 {
		t.Error("failed create must not persist a ride")
	}
}

func TestCreate_BadInput(t *testing.T) {
	store, disp, quote := okDeps()
	svc := NewService(store, disp, quote, nil, nil)
	ctx := context.Background()

	cases := []CreateCommand{
		{CustomerID: "", Pickup: pickup, Dropoff: dropoff, VehicleClass: pricing.ClassCar},
		{CustomerID: "c1", Pickup: types.Point{Lat: 91, Lng: 0}, Dropoff: dropoff, VehicleClass: pricing.ClassCar},
		{CustomerID: "c1", Pickup: pickup, Dropoff: types.Point{Lat: 0, Lng: -200}, VehicleClass: pricing.ClassCar},
	}
	for i, cmd := range cases {
		if _, err := svc.Create(ctx, cmd); !errors.Is(err, ErrBadRequest) {
			t.Errorf("case %d: error = %v, want ErrBadRequest", i, err)
		}
	}
	if store.count() != 0 {
		t.Error("invalid requests must not persist rides")
	}
}

func TestCreate_EventFailureIsNotFatal(t *testing.T) {
	store, disp, quote := okDeps()
	events := &recordingEvents{err: errors.New("broker down")}
	svc := NewService(store, disp, quote, events, nil)

	if _, err := svc.Create(context.Background(), CreateCommand{
		CustomerID:   "cust1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: pricing.ClassCar,
	}); err != nil {
		t.Errorf("publish failure must not fail create, got %v", err)
	}
}

func createTestRide(t *testing.T, svc *Service) *Ride {
	t.Helper()
	r, err := svc.Create(context.Background(), CreateCommand{
		CustomerID:   "cust1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: pricing.ClassCar,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return r
}

func TestUpdateStatus_LegalFlow(t *testing.T) {
	store, disp, quote := okDeps()
	svc := NewService(store, disp, quote, nil, nil)
	r := createTestRide(t, svc)
	ctx := context.Background()

	for _, target := range []Status{StatusAccepted, StatusOngoing, StatusCompleted} {
		updated, err := svc.UpdateStatus(ctx, r.ID, target)
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if updated.Status != target {
			t.Errorf("status = %s, want %s", updated.Status, target)
		}
	}
}

func TestUpdateStatus_IllegalTransitionLeavesRideUnchanged(t *testing.T) {
	store, disp, quote := okDeps()
	svc := NewService(store, disp, quote, nil, nil)
	r := createTestRide(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, r.ID, StatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("PENDING -> COMPLETED error = %v, want ErrInvalidTransition", err)
	}

	stored, _ := store.Get(ctx, r.ID)
	if stored.Status != StatusPending {
		t.Errorf("status changed to %s after illegal transition", stored.Status)
	}
	if !stored.UpdatedAt.Equal(r.UpdatedAt) {
		t.Error("UpdatedAt changed after illegal transition")
	}
}

func TestUpdateStatus_CancellationRules(t *testing.T) {
	store, disp, quote := okDeps()
	svc := NewService(store, disp, quote, nil, nil)
	ctx := context.Background()

	// CANCELLED is reachable from PENDING.
	r1 := createTestRide(t, svc)
	if _, err := svc.UpdateStatus(ctx, r1.ID, StatusCancelled); err != nil {
		t.Errorf("PENDING -> CANCELLED: %v", err)
	}

	// ...and from ACCEPTED.
	r2 := createTestRide(t, svc)
	if _, err := svc.UpdateStatus(ctx, r2.ID, StatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, r2.ID, StatusCancelled); err != nil {
		t.Errorf("ACCEPTED -> CANCELLED: %v", err)
	}

	// ...but not from COMPLETED.
	r3 := createTestRide(t, svc)
	for _, s := range []Status{StatusAccepted, StatusCompleted} {
		if _, err := svc.UpdateStatus(ctx, r3.ID, s); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}
	if _, err := svc.UpdateStatus(ctx, r3.ID, StatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("COMPLETED -> CANCELLED error = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatus_FareNeverRecomputed(t *testing.T) {
	store, disp, quote := okDeps()
	svc := NewService(store, disp, quote, nil, nil)
	r := createTestRide(t, svc)
	ctx := context.Background()

	// Even if the quoter would now price differently, the stored fare stays.
	quote.quote.Fare = types.Money{Amount: 9999, Currency: "USD"}

	updated, err := svc.UpdateStatus(ctx, r.ID, StatusAccepted)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Fare.Amount != 500 {
		t.Errorf("fare = %d after transition, want the creation-time 500", updated.Fare.Amount)
	}
	if !updated.UpdatedAt.After(r.UpdatedAt) {
		t.Error("UpdatedAt not bumped by a successful transition")
	}
}

func TestUpdateStatus_UnknownRide(t *testing.T) {
	store, disp, quote := okDeps()
	svc := NewService(store, disp, quote, nil, nil)

	if _, err := svc.UpdateStatus(context.Background(), "missing", StatusAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatus_UnknownTargetStatus(t *testing.T) {
	store, disp, quote := okDeps()
	svc := NewService(store, disp, quote, nil, nil)
	r := createTestRide(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), r.ID, "TELEPORTED"); !errors.Is(err, ErrBadRequest) {
		t.Errorf("error = %v, want ErrBadRequest", err)
	}
}

func TestUpdateStatus_PublishesEvent(t *testing.T) {
	store, disp, quote := okDeps()
	events := &recordingEvents{}
	svc := NewService(store, disp, quote, events, nil)
	r := createTestRide(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), r.ID, StatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	want := []string{"ride.created", "ride.status.accepted"}
	if len(events.keys) != len(want) {
		t.Fatalf("events = %v, want %v", events.keys, want)
	}
	for i := range want {
		if events.keys[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, events.keys[i], want[i])
		}
	}
}

func TestListByCustomerAndDriver(t *testing.T) {
	store, disp, quote := okDeps()
	svc := NewService(store, disp, quote, nil, nil)
	r := createTestRide(t, svc)
	ctx := context.Background()

	byCustomer, err := svc.ListByCustomer(ctx, "cust1")
	if err != nil || len(byCustomer) != 1 || byCustomer[0].ID != r.ID {
		t.Errorf("ListByCustomer = %v, %v", byCustomer, err)
	}
	byDriver, err := svc.ListByDriver(ctx, "driver1")
	if err != nil || len(byDriver) != 1 || byDriver[0].ID != r.ID {
		t.Errorf("ListByDriver = %v, %v", byDriver, err)
	}
	none, err := svc.ListByCustomer(ctx, "someone-else")
	if err != nil || len(none) != 0 {
		t.Errorf("ListByCustomer(other) = %v, %v", none, err)
	}
}
