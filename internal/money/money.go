package money

import (
	"errors" // Sentinel error values

	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
)

// ErrInvalidAmount is returned when an amount is not a usable money value
var ErrInvalidAmount = errors.New("invalid amount")

// Bounds accepted for a single funding/withdrawal/deposit amount
var (
	MinAmount = decimal.NewFromFloat(0.01)    // Smallest accepted amount
	MaxAmount = decimal.NewFromInt(1_000_000) // Largest accepted amount
)

// Monetary values serialize as plain JSON numbers, not quoted strings
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Normalize validates a caller-supplied amount and rounds it to 2 decimal
// places, half away from zero. Amounts outside [0.01, 1_000_000] are rejected.
func Normalize(amount decimal.Decimal) (decimal.Decimal, error) {
	// Reject before rounding so 0.004 does not sneak in as 0.00
	if amount.LessThan(MinAmount) {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount.Round(2), nil // Round half away from zero
}

// Round rounds a computed balance to 2 decimal places without bounds checks.
// Balances derived from arithmetic go through here before persisting.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Format renders a money value with exactly 2 fractional digits for display
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
