package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/atm_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerStore implements the ledger store on PostgreSQL.
// Account order is kept in the position column.
type PgxLedgerStore struct {
	BaseRepository
}

// NewPgxLedgerStore creates a new ledger store backed by pool.
func NewPgxLedgerStore(pool *pgxpool.Pool) *PgxLedgerStore {
	return &PgxLedgerStore{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerStore implements the LedgerStoreFacade and TransactionManager interfaces
var (
	_ portsrepo.LedgerStoreFacade  = (*PgxLedgerStore)(nil)
	_ portsrepo.TransactionManager = (*PgxLedgerStore)(nil)
)

// LoadAccounts returns every account ordered by position.
func (r *PgxLedgerStore) LoadAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT account_id, display_name, pin, balance
		FROM ledger_accounts
		ORDER BY position ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var acc domain.Account
		if err := rows.Scan(&acc.ID, &acc.DisplayName, &acc.PIN, &acc.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccounts replaces the account set in one transaction.
func (r *PgxLedgerStore) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			slog.WarnContext(ctx, "Failed to rollback account directory save", slog.String("error", rbErr.Error()))
		}
	}()

	ids := make([]string, len(accounts))
	for i, acc := range accounts {
		ids[i] = acc.ID
	}
	if _, err := tx.Exec(ctx, `DELETE FROM ledger_accounts WHERE NOT (account_id = ANY($1));`, ids); err != nil {
		return fmt.Errorf("failed to prune accounts: %w", err)
	}

	query := `
		INSERT INTO ledger_accounts (account_id, display_name, pin, balance, position, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			pin = EXCLUDED.pin,
			balance = EXCLUDED.balance,
			position = EXCLUDED.position,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for i, acc := range accounts {
		batch.Queue(query, acc.ID, acc.DisplayName, acc.PIN, acc.Balance, i, now)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to save account %s: %w", accounts[i].ID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close account batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	return r.Commit(ctx, tx)
}

// AppendMovement inserts one movement row.
func (r *PgxLedgerStore) AppendMovement(ctx context.Context, accountID string, movement domain.Movement) error {
	query := `
		INSERT INTO ledger_movements (account_id, occurred_at, kind, amount, resulting_balance)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		accountID,
		movement.Timestamp,
		string(movement.Kind),
		movement.Amount,
		movement.ResultingBalance,
	)
	if err != nil {
		return fmt.Errorf("failed to append %s movement for %s: %w", movement.Kind, accountID, err)
	}
	return nil
}

// RecentMovements returns at most count movements of accountID, newest first.
// Equal timestamps fall back to insertion order, newest first.
func (r *PgxLedgerStore) RecentMovements(ctx context.Context, accountID string, count int) ([]domain.Movement, error) {
	if count <= 0 {
		return []domain.Movement{}, nil
	}

	query := `
		SELECT account_id, occurred_at, kind, amount, resulting_balance
		FROM ledger_movements
		WHERE account_id = $1
		ORDER BY occurred_at DESC, movement_seq DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for %s: %w", accountID, err)
	}
	defer rows.Close()

	movements := make([]domain.Movement, 0, count)
	for rows.Next() {
		var (
			m    domain.Movement
			kind string
		)
		if err := rows.Scan(&m.AccountID, &m.Timestamp, &kind, &m.Amount, &m.ResultingBalance); err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		if m.Kind, err = domain.ParseMovementKind(kind); err != nil {
			return nil, fmt.Errorf("movement row for %s: %w", accountID, err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return movements, nil
}
