package domain

import "github.com/shopspring/decimal"

// Amounts and balances carry at most MaxScale fractional digits and
// MaxIntegerDigits integer digits, the range of a 96-bit decimal.
const (
	MaxScale         = 28
	MaxIntegerDigits = 28
)

// WithinPrecision reports whether d fits the stored amount range.
func WithinPrecision(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < -MaxScale {
		return false
	}
	return d.NumDigits()+exp <= MaxIntegerDigits
}
