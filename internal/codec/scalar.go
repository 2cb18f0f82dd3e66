package codec

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TimeLayout is the canonical timestamp form written to disk.
const TimeLayout = time.RFC3339Nano

// localTimeLayout reads timestamps written without a zone designator.
const localTimeLayout = "2006-01-02T15:04:05"

// FormatDecimal writes d with a '.' decimal point and no grouping, independent of locale.
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}

// ParseDecimal reads a value written by FormatDecimal. Values outside the
// stored amount range are malformed.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid decimal %q", ErrMalformedRecord, s)
	}
	if !domain.WithinPrecision(d) {
		return decimal.Zero, fmt.Errorf("%w: decimal out of range", ErrMalformedRecord)
	}
	return d, nil
}

// FormatTime writes t as RFC 3339 with nanoseconds, keeping its zone offset.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime reads a timestamp written by FormatTime. Round-trip timestamps with
// seven fractional digits are accepted too, and timestamps without an offset are
// read in the local zone.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(localTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrMalformedRecord, s)
}
