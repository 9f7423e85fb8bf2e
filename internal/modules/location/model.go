// README: Driver position records and nearby-query results.
package location

import (
	"errors"
	"time"

	"gocab/internal/types"
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrDriverNotFound    = errors.New("driver not found")
)

// DefaultRadiusMeters is used when a nearby query does not specify a radius.
const DefaultRadiusMeters = 5000.0

// DriverLocation is the live position of one driver. The index keeps exactly
// one entry per driver; a newer update supersedes the previous one.
type DriverLocation struct {
	DriverID  types.ID
	Position  types.Point
	Status    string
	UpdatedAt time.Time
}

// Nearby is one result of a proximity query.
type Nearby struct {
	DriverID       types.ID    `json:"driver_id"`
	Position       types.Point `json:"position"`
	DistanceMeters float64     `json:"distance_meters"`
}

// Snapshot is a persisted location sample for offline analysis. The live
// index never reads these back.
type Snapshot struct {
	DriverID   types.ID
	Position   types.Point
	Status     string
	RecordedAt time.Time
}
