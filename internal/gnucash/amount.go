package gnucash

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// fromRational converts a GnuCash num/denom pair into a decimal and the
// number of decimal places its denominator implies.
func fromRational(num, denom int64) (decimal.Decimal, int32) {
	if denom <= 0 {
		denom = 1
	}
	if places, ok := decimalPlaces(denom); ok {
		return decimal.New(num, -places), places
	}
	return decimal.NewFromInt(num).DivRound(decimal.NewFromInt(denom), 8), 8
}

// toRational scales amount to the given fraction. Amounts that do not fit
// the fraction exactly are rejected rather than rounded.
func toRational(amount decimal.Decimal, fraction int64) (int64, error) {
	scaled := amount.Mul(decimal.NewFromInt(fraction))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s with fraction 1/%d", ErrPrecision, amount, fraction)
	}
	return scaled.IntPart(), nil
}

// decimalPlaces returns n for denom == 10^n.
func decimalPlaces(denom int64) (int32, bool) {
	var places int32
	for denom > 1 {
		if denom%10 != 0 {
			return 0, false
		}
		denom /= 10
		places++
	}
	return places, denom == 1
}
