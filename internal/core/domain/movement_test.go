package domain_test

import (
	"testing"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseMovementKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.MovementKind
		wantErr bool
	}{
		{name: "wire deposit", input: "Deposito", want: domain.Deposit},
		{name: "wire withdrawal", input: "Retiro", want: domain.Withdrawal},
		{name: "wire pin change", input: "CambioClave", want: domain.PinChange},
		{name: "english label", input: "Withdrawal", want: domain.Withdrawal},
		{name: "mixed case with spaces", input: "  pinCHANGE ", want: domain.PinChange},
		{name: "unknown", input: "Transfer", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseMovementKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMovementKind_String(t *testing.T) {
	assert.Equal(t, "Deposit", domain.Deposit.String())
	assert.Equal(t, "Withdrawal", domain.Withdrawal.String())
	assert.Equal(t, "PinChange", domain.PinChange.String())
	assert.Equal(t, "Other", domain.MovementKind("Other").String())
}

func TestMovement_Valid(t *testing.T) {
	tests := []struct {
		name     string
		movement domain.Movement
		want     bool
	}{
		{
			name:     "deposit with positive amount",
			movement: domain.Movement{Kind: domain.Deposit, Amount: decimal.NewFromInt(10), ResultingBalance: decimal.NewFromInt(10)},
			want:     true,
		},
		{
			name:     "withdrawal down to zero",
			movement: domain.Movement{Kind: domain.Withdrawal, Amount: decimal.NewFromInt(10), ResultingBalance: decimal.Zero},
			want:     true,
		},
		{
			name:     "deposit with zero amount",
			movement: domain.Movement{Kind: domain.Deposit, Amount: decimal.Zero, ResultingBalance: decimal.Zero},
			want:     false,
		},
		{
			name:     "pin change carries zero amount",
			movement: domain.Movement{Kind: domain.PinChange, Amount: decimal.Zero, ResultingBalance: decimal.NewFromInt(5)},
			want:     true,
		},
		{
			name:     "pin change with amount",
			movement: domain.Movement{Kind: domain.PinChange, Amount: decimal.NewFromInt(1), ResultingBalance: decimal.NewFromInt(5)},
			want:     false,
		},
		{
			name:     "negative resulting balance",
			movement: domain.Movement{Kind: domain.Withdrawal, Amount: decimal.NewFromInt(1), ResultingBalance: decimal.NewFromInt(-1)},
			want:     false,
		},
		{
			name:     "unknown kind",
			movement: domain.Movement{Kind: "Transfer", Amount: decimal.NewFromInt(1)},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.movement.Valid())
		})
	}
}

func TestAccount_MatchesAndCheckPIN(t *testing.T) {
	acc := domain.NewDemoAccount()

	assert.True(t, acc.Matches("u1"))
	assert.True(t, acc.Matches("U1"))
	assert.True(t, acc.Matches("DEMO"))
	assert.False(t, acc.Matches("dem"))
	assert.True(t, acc.HasID("U1"))
	assert.False(t, acc.HasID("Demo"))

	assert.True(t, acc.CheckPIN("1234"))
	assert.False(t, acc.CheckPIN(" 1234"))
	assert.True(t, acc.Balance.IsZero())
}
