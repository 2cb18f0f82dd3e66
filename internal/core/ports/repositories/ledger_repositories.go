package repositories

import (
	"context"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

// AccountDirectory defines persistence for the full set of accounts.
type AccountDirectory interface {
	// LoadAccounts returns every readable account in directory order.
	// A directory that does not exist yet yields an empty slice and no error.
	LoadAccounts(ctx context.Context) ([]domain.Account, error)

	// SaveAccounts replaces the whole directory with accounts, in the given order.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error
}

// MovementLog defines the append-only movement ledger.
type MovementLog interface {
	// AppendMovement records one movement for accountID.
	AppendMovement(ctx context.Context, accountID string, movement domain.Movement) error

	// RecentMovements returns at most count movements of accountID, newest first.
	RecentMovements(ctx context.Context, accountID string, count int) ([]domain.Movement, error)
}

// LedgerStoreFacade combines the account directory and the movement log.
// This is the single persistence dependency of the account engine.
type LedgerStoreFacade interface {
	AccountDirectory
	MovementLog
}
