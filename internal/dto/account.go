package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountRequest is the body of deposit and withdrawal requests.
// Amount accepts a JSON number or a numeric string.
type AmountRequest struct {
	Amount json.Number `json:"amount" binding:"required,decimal_positive"`
}

// Decimal returns the parsed amount.
func (r AmountRequest) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Amount.String())
}

// ChangePINRequest is the body of a PIN change request.
type ChangePINRequest struct {
	CurrentPIN string `json:"currentPin" binding:"required"`
	NewPIN     string `json:"newPin" binding:"required"`
}

// AccountResponse defines the data returned for the session's account.
// The PIN is never returned.
type AccountResponse struct {
	AccountID   string          `json:"accountID"`
	DisplayName string          `json:"displayName"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceResponse defines the data returned by a balance query.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// MovementResponse mirrors domain.Movement.
type MovementResponse struct {
	AccountID        string          `json:"accountID"`
	Timestamp        time.Time       `json:"timestamp"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resultingBalance"`
}

// ListMovementsResponse wraps a newest-first page of movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   acc.ID,
		DisplayName: acc.DisplayName,
		Balance:     acc.Balance,
	}
}

// ToMovementResponse converts a domain.Movement to MovementResponse DTO
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		AccountID:        m.AccountID,
		Timestamp:        m.Timestamp,
		Kind:             m.Kind.String(),
		Amount:           m.Amount,
		ResultingBalance: m.ResultingBalance,
	}
}

// ToListMovementsResponse converts a slice of movements, keeping their order.
func ToListMovementsResponse(movements []domain.Movement) ListMovementsResponse {
	list := make([]MovementResponse, len(movements))
	for i := range movements {
		list[i] = ToMovementResponse(&movements[i])
	}
	return ListMovementsResponse{Movements: list}
}
