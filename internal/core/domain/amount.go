package domain

import "github.com/shopspring/decimal"

// AmountScale is the number of decimal places a money amount may carry.
const AmountScale = 2

// MaxAmount bounds every amount and initial balance accepted by an account.
var MaxAmount = decimal.New(1, 12)

// Exponents outside this range are rejected before any arithmetic, since
// comparing or rescaling them costs time proportional to the exponent.
const (
	minAmountExponent = -18
	maxAmountExponent = 12
)

// ValidAmount reports whether amount is positive, at most MaxAmount and has
// no more than AmountScale decimal places.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && withinBounds(amount)
}

func withinBounds(amount decimal.Decimal) bool {
	if amount.IsZero() {
		return true
	}
	if exp := amount.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return false
	}
	if amount.Abs().GreaterThan(MaxAmount) {
		return false
	}
	return amount.Equal(amount.Truncate(AmountScale))
}
