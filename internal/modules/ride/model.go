// README: Ride aggregate, status definitions, and the transition table.
package ride

import (
	"errors"
	"fmt"
	"time"

	"gocab/internal/modules/pricing"
	"gocab/internal/types"
)

var (
	ErrNotFound          = errors.New("ride not found")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrConflict          = errors.New("ride state conflict")
	ErrBadRequest        = errors.New("bad request")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// AllowedTransitions represents the ride lifecycle as code. A ride starts in
// PENDING; COMPLETED and CANCELLED are terminal. ACCEPTED may complete
// directly, ONGOING is an optional intermediate stop.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusOngoing, StatusCompleted, StatusCancelled},
	StatusOngoing:  {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a wire-level status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusOngoing, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrBadRequest, s)
}

// Ride is the dispatch result plus lifecycle state. The fare is fixed at
// creation and never recomputed by a transition.
type Ride struct {
	ID             types.ID      `json:"id"`
	CustomerID     types.ID      `json:"customer_id"`
	DriverID       types.ID      `json:"driver_id"`
	VehicleClass   pricing.Class `json:"vehicle_class"`
	Status         Status        `json:"status"`
	StatusVersion  int           `json:"-"`
	Fare           types.Money   `json:"fare"`
	Pickup         types.Point   `json:"pickup"`
	Dropoff        types.Point   `json:"dropoff"`
	PickupAddress  string        `json:"pickup_address,omitempty"`
	DropoffAddress string        `json:"dropoff_address,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
