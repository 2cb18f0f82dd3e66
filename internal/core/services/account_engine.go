package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/atm_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultHistoryCount is the number of movements History returns for a non-positive count.
const DefaultHistoryCount = 5

// accountEngineImpl implements the AccountEngineSvcFacade interface.
//
// It owns the loaded account directory. Every mutation is applied in memory,
// appended to the movement log and then written out with a full directory
// rewrite before it is reported as successful.
type accountEngineImpl struct {
	BaseService
	store portsrepo.LedgerStoreFacade

	mu              sync.Mutex
	accounts        []domain.Account
	now             func() time.Time
	historyDefault  int
	reconcileOnLoad bool
}

// EngineOption is a functional option for configuring the account engine
type EngineOption func(*accountEngineImpl)

// WithClock replaces time.Now as the source of movement timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *accountEngineImpl) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHistoryDefault sets the count History uses when called with a non-positive count.
func WithHistoryDefault(count int) EngineOption {
	return func(e *accountEngineImpl) {
		if count > 0 {
			e.historyDefault = count
		}
	}
}

// WithReconcileOnLoad makes the engine compare each account with its latest movement
// at startup and adopt the movement's resulting balance when they disagree.
func WithReconcileOnLoad(enabled bool) EngineOption {
	return func(e *accountEngineImpl) {
		e.reconcileOnLoad = enabled
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *accountEngineImpl) {
		e.Logger = logger
	}
}

// NewAccountEngine creates the engine and loads the account directory from store.
func NewAccountEngine(ctx context.Context, store portsrepo.LedgerStoreFacade, options ...EngineOption) (portssvc.AccountEngineSvcFacade, error) {
	e := &accountEngineImpl{
		store:          store,
		now:            time.Now,
		historyDefault: DefaultHistoryCount,
	}
	for _, option := range options {
		option(e)
	}

	accounts, err := store.LoadAccounts(ctx)
	if err != nil {
		e.LogError(ctx, err, "Failed to load account directory")
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	e.accounts = accounts
	e.LogInfo(ctx, "Account directory loaded", slog.Int("accounts", len(accounts)))

	if e.reconcileOnLoad {
		if err := e.reconcile(ctx); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Ensure accountEngineImpl implements the AccountEngineSvcFacade interface
var _ portssvc.AccountEngineSvcFacade = (*accountEngineImpl)(nil)

func (e *accountEngineImpl) EnsureDemoAccount(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.accounts) > 0 {
		return false, nil
	}
	e.accounts = append(e.accounts, domain.NewDemoAccount())
	if err := e.store.SaveAccounts(ctx, slices.Clone(e.accounts)); err != nil {
		e.accounts = e.accounts[:0]
		e.LogError(ctx, err, "Failed to persist demo account")
		return false, fmt.Errorf("%w: saving demo account: %w", apperrors.ErrPersistence, err)
	}
	e.LogInfo(ctx, "Demo account created", slog.String("account_id", domain.DemoAccountID))
	return true, nil
}

func (e *accountEngineImpl) Authenticate(ctx context.Context, identifier string, pin string) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range e.accounts {
		if a.Matches(identifier) && a.CheckPIN(pin) {
			e.LogInfo(ctx, "Session started", slog.String("account_id", a.ID))
			return &domain.Session{AccountID: a.ID, StartedAt: e.now()}, nil
		}
	}
	e.LogWarn(ctx, "Authentication failed", slog.String("identifier", identifier))
	return nil, apperrors.ErrInvalidCredentials
}

func (e *accountEngineImpl) Resume(ctx context.Context, accountID string) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(accountID)
	if idx < 0 {
		e.LogDebug(ctx, "Cannot resume session for unknown account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &domain.Session{AccountID: e.accounts[idx].ID, StartedAt: e.now()}, nil
}

func (e *accountEngineImpl) CurrentAccount(ctx context.Context, sess *domain.Session) (*domain.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.bound(sess)
	if err != nil {
		return nil, err
	}
	acc := e.accounts[idx]
	return &acc, nil
}

func (e *accountEngineImpl) Deposit(ctx context.Context, sess *domain.Session, amount decimal.Decimal) (*domain.Movement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.bound(sess)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	acc := &e.accounts[idx]
	balance := acc.Balance.Add(amount)
	if !domain.WithinPrecision(balance) {
		return nil, apperrors.ErrAmountPrecision
	}
	previous := acc.Balance
	acc.Balance = balance
	return e.commit(ctx, idx, domain.Deposit, amount, func() { acc.Balance = previous })
}

func (e *accountEngineImpl) Withdraw(ctx context.Context, sess *domain.Session, amount decimal.Decimal) (*domain.Movement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.bound(sess)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	acc := &e.accounts[idx]
	if amount.GreaterThan(acc.Balance) {
		e.LogDebug(ctx, "Withdrawal rejected for insufficient funds",
			slog.String("account_id", acc.ID),
			slog.String("amount", amount.String()),
			slog.String("balance", acc.Balance.String()))
		return nil, apperrors.ErrInsufficientFunds
	}
	previous := acc.Balance
	acc.Balance = acc.Balance.Sub(amount)
	return e.commit(ctx, idx, domain.Withdrawal, amount, func() { acc.Balance = previous })
}

func (e *accountEngineImpl) ChangePIN(ctx context.Context, sess *domain.Session, currentPIN string, newPIN string) (*domain.Movement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.bound(sess)
	if err != nil {
		return nil, err
	}
	acc := &e.accounts[idx]
	if !acc.CheckPIN(currentPIN) {
		e.LogWarn(ctx, "PIN change rejected: current PIN mismatch", slog.String("account_id", acc.ID))
		return nil, apperrors.ErrInvalidCredentials
	}
	trimmed := strings.TrimSpace(newPIN)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: new PIN must not be blank", apperrors.ErrValidation)
	}
	if strings.ContainsAny(trimmed, "\r\n") {
		return nil, fmt.Errorf("%w: new PIN must be a single line", apperrors.ErrValidation)
	}

	previous := acc.PIN
	acc.PIN = trimmed
	return e.commit(ctx, idx, domain.PinChange, decimal.Zero, func() { acc.PIN = previous })
}

func (e *accountEngineImpl) Balance(ctx context.Context, sess *domain.Session) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.bound(sess)
	if err != nil {
		return decimal.Zero, err
	}
	return e.accounts[idx].Balance, nil
}

func (e *accountEngineImpl) History(ctx context.Context, sess *domain.Session, count int) ([]domain.Movement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.bound(sess)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = e.historyDefault
	}
	accountID := e.accounts[idx].ID
	movements, err := e.store.RecentMovements(ctx, accountID, count)
	if err != nil {
		e.LogError(ctx, err, "Failed to read movement history", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to read history for %s: %w", accountID, err)
	}
	return movements, nil
}

// commit records the mutation already applied to e.accounts[idx].
// When the movement cannot be appended, revert undoes the in-memory change and
// nothing is persisted. When the directory rewrite fails afterwards the log
// already holds the movement, so the in-memory state keeps it and the caller
// gets an error.
func (e *accountEngineImpl) commit(ctx context.Context, idx int, kind domain.MovementKind, amount decimal.Decimal, revert func()) (*domain.Movement, error) {
	acc := e.accounts[idx]
	movement := domain.Movement{
		AccountID:        acc.ID,
		Timestamp:        e.now(),
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: acc.Balance,
	}

	if err := e.store.AppendMovement(ctx, acc.ID, movement); err != nil {
		revert()
		e.LogError(ctx, err, "Failed to append movement",
			slog.String("account_id", acc.ID),
			slog.String("kind", kind.String()))
		return nil, fmt.Errorf("%w: appending %s movement: %w", apperrors.ErrPersistence, kind, err)
	}
	if err := e.store.SaveAccounts(ctx, slices.Clone(e.accounts)); err != nil {
		e.LogError(ctx, err, "Failed to rewrite account directory after movement",
			slog.String("account_id", acc.ID),
			slog.String("kind", kind.String()))
		return nil, fmt.Errorf("%w: saving account directory: %w", apperrors.ErrPersistence, err)
	}

	e.LogInfo(ctx, "Movement recorded",
		slog.String("account_id", acc.ID),
		slog.String("kind", kind.String()),
		slog.String("amount", amount.String()),
		slog.String("resulting_balance", movement.ResultingBalance.String()))
	return &movement, nil
}

// reconcile replays the latest movement of every account over the loaded
// directory, repairing balances left behind by an interrupted mutation.
func (e *accountEngineImpl) reconcile(ctx context.Context) error {
	changed := false
	for i := range e.accounts {
		acc := &e.accounts[i]
		latest, err := e.store.RecentMovements(ctx, acc.ID, 1)
		if err != nil {
			e.LogError(ctx, err, "Failed to read movement log during reconciliation", slog.String("account_id", acc.ID))
			return fmt.Errorf("failed to reconcile %s: %w", acc.ID, err)
		}
		if len(latest) == 0 || latest[0].ResultingBalance.Equal(acc.Balance) || latest[0].ResultingBalance.IsNegative() {
			continue
		}
		e.LogWarn(ctx, "Account balance behind movement log, adopting logged balance",
			slog.String("account_id", acc.ID),
			slog.String("directory_balance", acc.Balance.String()),
			slog.String("logged_balance", latest[0].ResultingBalance.String()))
		acc.Balance = latest[0].ResultingBalance
		changed = true
	}
	if !changed {
		return nil
	}
	if err := e.store.SaveAccounts(ctx, slices.Clone(e.accounts)); err != nil {
		e.LogError(ctx, err, "Failed to save reconciled account directory")
		return fmt.Errorf("%w: saving reconciled directory: %w", apperrors.ErrPersistence, err)
	}
	return nil
}

// checkAmount validates a deposit or withdrawal amount.
func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero", apperrors.ErrInvalidAmount)
	}
	if !domain.WithinPrecision(amount) {
		return apperrors.ErrAmountPrecision
	}
	return nil
}

// bound returns the index of the account sess is bound to. Session IDs are
// copied from the directory, so the lookup is exact.
func (e *accountEngineImpl) bound(sess *domain.Session) (int, error) {
	if sess == nil {
		return -1, apperrors.ErrNoSession
	}
	idx := slices.IndexFunc(e.accounts, func(a domain.Account) bool {
		return a.ID == sess.AccountID
	})
	if idx < 0 {
		return -1, fmt.Errorf("%w: account %s is not loaded", apperrors.ErrNoSession, sess.AccountID)
	}
	return idx, nil
}

// indexOf returns the account whose ID is exactly id, or else the first one
// whose ID matches ignoring case.
func (e *accountEngineImpl) indexOf(id string) int {
	if idx := slices.IndexFunc(e.accounts, func(a domain.Account) bool { return a.ID == id }); idx >= 0 {
		return idx
	}
	return slices.IndexFunc(e.accounts, func(a domain.Account) bool {
		return a.HasID(id)
	})
}
