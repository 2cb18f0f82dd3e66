package services

import (
	"context"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SessionSvc defines how callers obtain a session.
type SessionSvc interface {
	// Authenticate matches identifier against account IDs or display names (ignoring case)
	// and pin exactly, returning a session bound to the first matching account.
	Authenticate(ctx context.Context, identifier string, pin string) (*domain.Session, error)

	// Resume rebinds a session to an existing account, for callers that already verified
	// the identity themselves (for example through a signed token).
	Resume(ctx context.Context, accountID string) (*domain.Session, error)

	// CurrentAccount returns a copy of the account bound to sess.
	CurrentAccount(ctx context.Context, sess *domain.Session) (*domain.Account, error)
}

// AccountOperationsSvc defines the balance- and PIN-changing operations.
type AccountOperationsSvc interface {
	// Deposit adds amount to the balance and records a deposit movement.
	Deposit(ctx context.Context, sess *domain.Session, amount decimal.Decimal) (*domain.Movement, error)

	// Withdraw removes amount from the balance and records a withdrawal movement.
	Withdraw(ctx context.Context, sess *domain.Session, amount decimal.Decimal) (*domain.Movement, error)

	// ChangePIN replaces the stored PIN and records a PIN change movement.
	ChangePIN(ctx context.Context, sess *domain.Session, currentPIN string, newPIN string) (*domain.Movement, error)
}

// AccountQuerySvc defines read-only queries.
type AccountQuerySvc interface {
	// Balance returns the current balance of the session's account.
	Balance(ctx context.Context, sess *domain.Session) (decimal.Decimal, error)

	// History returns up to count movements of the session's account, newest first.
	History(ctx context.Context, sess *domain.Session, count int) ([]domain.Movement, error)
}

// AccountEngineSvcFacade combines all account engine interfaces.
type AccountEngineSvcFacade interface {
	SessionSvc
	AccountOperationsSvc
	AccountQuerySvc

	// EnsureDemoAccount creates the demo account when the directory is empty.
	// It reports whether an account was created.
	EnsureDemoAccount(ctx context.Context) (bool, error)
}
