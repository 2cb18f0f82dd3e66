package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Demo account created on first run when the account directory is empty.
const (
	DemoAccountID   = "u1"
	DemoDisplayName = "Demo"
	DemoPIN         = "1234"
)

// Account represents one entry of the account directory.
// Balance is never negative.
type Account struct {
	ID          string          `json:"id"`          // Unique, matched case-insensitively
	DisplayName string          `json:"displayName"` // Alternate login identifier, case-insensitive
	PIN         string          `json:"-"`           // Compared verbatim, stored in clear
	Balance     decimal.Decimal `json:"balance"`
}

// NewDemoAccount returns the bootstrap account with a zero balance.
func NewDemoAccount() Account {
	return Account{
		ID:          DemoAccountID,
		DisplayName: DemoDisplayName,
		PIN:         DemoPIN,
		Balance:     decimal.Zero,
	}
}

// Matches reports whether identifier names this account by ID or display name, ignoring case.
func (a Account) Matches(identifier string) bool {
	return strings.EqualFold(a.ID, identifier) || strings.EqualFold(a.DisplayName, identifier)
}

// HasID reports whether id is this account's ID, ignoring case.
func (a Account) HasID(id string) bool {
	return strings.EqualFold(a.ID, id)
}

// CheckPIN compares pin with the stored PIN exactly.
func (a Account) CheckPIN(pin string) bool {
	return a.PIN == pin
}
