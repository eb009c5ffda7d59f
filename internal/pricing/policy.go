package pricing

import (
	"errors"
	"math"
)

// ErrUnpriceable marks inputs for which no unit price can be computed.
// Callers must not coerce it into a number.
var ErrUnpriceable = errors.New("price cannot be computed from input")

// UnitPrice applies the store-wide discount rate to a gross catalog price and
// rounds to 2 decimals, half away from zero. The same function runs on the
// client and the server; it must stay pure so both sides agree.
func UnitPrice(gross, rate float64) (float64, error) {
	if math.IsNaN(gross) || math.IsInf(gross, 0) || gross < 0 {
		return 0, ErrUnpriceable
	}
	if math.IsNaN(rate) || rate < 0 || rate >= 1 {
		return 0, ErrUnpriceable
	}
	return round2(gross * (1 - rate)), nil
}

// MinorUnits converts a unit price to integer minor currency units (øre).
// The payment provider's wire format requires integer amounts; rounding here
// is bit-exact round-half-away-from-zero.
func MinorUnits(unitPrice float64) int64 {
	return int64(math.Round(unitPrice * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
