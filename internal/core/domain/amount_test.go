package domain_test

import (
	"testing"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWithinPrecision(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "0", want: true},
		{value: "0.01", want: true},
		{value: "12345678901234567890.123456789", want: true},
		{value: "0.0000000000000000000000000001", want: true},
		{value: "0.00000000000000000000000000001", want: false},
		{value: "1e-200000", want: false},
		{value: "9999999999999999999999999999", want: true},
		{value: "10000000000000000000000000000", want: false},
		{value: "1e200000", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.WithinPrecision(decimal.RequireFromString(tt.value)))
		})
	}
}
