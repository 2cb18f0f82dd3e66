package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind identifies the operation a movement records.
type MovementKind string

// The wire names match the movement log written by earlier versions of the cashier.
const (
	Deposit    MovementKind = "Deposito"
	Withdrawal MovementKind = "Retiro"
	PinChange  MovementKind = "CambioClave"
)

// String returns the English label of the kind.
func (k MovementKind) String() string {
	switch k {
	case Deposit:
		return "Deposit"
	case Withdrawal:
		return "Withdrawal"
	case PinChange:
		return "PinChange"
	default:
		return string(k)
	}
}

// ParseMovementKind accepts either the wire name or the English label, ignoring case.
func ParseMovementKind(s string) (MovementKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposito", "deposit":
		return Deposit, nil
	case "retiro", "withdrawal":
		return Withdrawal, nil
	case "cambioclave", "pinchange":
		return PinChange, nil
	default:
		return "", fmt.Errorf("unknown movement kind: %q", s)
	}
}

// Movement is one immutable entry of the movement log.
// Amount is zero for PinChange and strictly positive otherwise.
type Movement struct {
	AccountID        string          `json:"accountID"`
	Timestamp        time.Time       `json:"timestamp"`
	Kind             MovementKind    `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resultingBalance"`
}

// Valid checks the per-kind amount rule and the non-negative resulting balance.
func (m Movement) Valid() bool {
	if m.ResultingBalance.IsNegative() {
		return false
	}
	switch m.Kind {
	case Deposit, Withdrawal:
		return m.Amount.IsPositive()
	case PinChange:
		return m.Amount.IsZero()
	default:
		return false
	}
}
