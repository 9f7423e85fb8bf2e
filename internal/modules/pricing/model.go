// README: Vehicle classes and the per-kilometre rate table.
package pricing

import (
	"errors"
	"fmt"

	"gocab/internal/types"
)

var ErrUnsupportedClass = errors.New("unsupported vehicle class")

// Class is the requested vehicle category. The set is closed: anything not
// listed here is rejected, never defaulted.
type Class string

const (
	ClassBike   Class = "BIKE"
	ClassCar    Class = "CAR"
	ClassLuxury Class = "LUXURY"
)

// DefaultClass is used when a price query leaves the class unspecified.
const DefaultClass = ClassCar

const currency = "USD"

// ratePerKm is the fare rate in currency units per kilometre.
var ratePerKm = map[Class]float64{
	ClassBike:   0.5,
	ClassCar:    1.0,
	ClassLuxury: 2.5,
}

// ParseClass validates a wire-level class value.
func ParseClass(s string) (Class, error) {
	c := Class(s)
	if _, ok := ratePerKm[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedClass, s)
	}
	return c, nil
}

// Quote is a full price estimate for a trip.
type Quote struct {
	DistanceKm  float64     `json:"distance_km"`
	DurationMin float64     `json:"duration_min"`
	Fare        types.Money `json:"fare"`
}
