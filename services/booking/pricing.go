package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const secondsPerHour = 3600

// CalculatePrice computes the total booking price as rate × duration in
// hours, in exact decimal arithmetic. It runs exactly once, at creation time;
// later date edits never recompute an already-fixed price.
func CalculatePrice(hourlyRate decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	if hourlyRate.IsNegative() {
		return decimal.Zero, NewInvalidInputError("hourly rate must not be negative")
	}
	if !end.After(start) {
		return decimal.Zero, NewInvalidInputError("booking duration must be positive")
	}

	// Multiply before dividing so exact fractions of an hour stay exact
	// (e.g. 20.00/hr over 2h30m is 20 × 9000 / 3600 = 50.00).
	seconds := int64(end.Sub(start) / time.Second)
	price := hourlyRate.Mul(decimal.NewFromInt(seconds)).Div(decimal.NewFromInt(secondsPerHour))
	return price, nil
}
