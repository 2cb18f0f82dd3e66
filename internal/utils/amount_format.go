package utils

import "github.com/shopspring/decimal"

// DisplayPrecision is the number of decimal places amounts are shown with.
const DisplayPrecision = 2

// FormatAmount renders an amount for display, e.g. 12.3 becomes "12.30".
// Stored values keep their full precision.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(DisplayPrecision)
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
