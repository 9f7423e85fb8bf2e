// README: Common money value object used across modules.
package types

import "fmt"

// Money is an amount in currency minor units (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Units returns the amount in major currency units.
func (m Money) Units() float64 {
	return float64(m.Amount) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Units(), m.Currency)
}
