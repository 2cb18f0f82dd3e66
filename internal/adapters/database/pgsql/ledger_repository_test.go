package pgsql_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/SscSPs/atm_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/SscSPs/atm_ledger/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// PgxLedgerStoreTestSuite runs against a real database named by TEST_PGSQL_URL.
type PgxLedgerStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *pgsql.PgxLedgerStore
}

func (suite *PgxLedgerStoreTestSuite) SetupSuite() {
	url := os.Getenv("TEST_PGSQL_URL")
	if url == "" {
		suite.T().Skip("TEST_PGSQL_URL not set")
	}
	suite.ctx = context.Background()

	_, thisFile, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "..", "migrations")
	_, err := database.RunMigrations(url, "file://"+filepath.ToSlash(migrations), slog.Default())
	suite.Require().NoError(err)

	pool, err := database.NewPgxPool(suite.ctx, url)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { database.ClosePgxPool(pool) })
	suite.store = pgsql.NewPgxLedgerStore(pool)
}

func (suite *PgxLedgerStoreTestSuite) SetupTest() {
	_, err := suite.store.Pool.Exec(suite.ctx, `TRUNCATE ledger_accounts, ledger_movements RESTART IDENTITY;`)
	suite.Require().NoError(err)
}

func (suite *PgxLedgerStoreTestSuite) TestSaveAndLoadAccounts_ReplacesInOrder() {
	first := []domain.Account{
		{ID: "u1", DisplayName: "Demo", PIN: "1234", Balance: decimal.RequireFromString("10.5")},
		{ID: "u2", DisplayName: "Other", PIN: "1", Balance: decimal.Zero},
	}
	suite.Require().NoError(suite.store.SaveAccounts(suite.ctx, first))

	second := []domain.Account{
		{ID: "u3", DisplayName: "Third", PIN: "3", Balance: decimal.NewFromInt(3)},
		{ID: "u1", DisplayName: "Demo", PIN: "9999", Balance: decimal.NewFromInt(20)},
	}
	suite.Require().NoError(suite.store.SaveAccounts(suite.ctx, second))

	loaded, err := suite.store.LoadAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(loaded, 2)
	suite.Equal("u3", loaded[0].ID)
	suite.Equal("u1", loaded[1].ID)
	suite.Equal("9999", loaded[1].PIN)
	suite.True(loaded[1].Balance.Equal(decimal.NewFromInt(20)))
}

func (suite *PgxLedgerStoreTestSuite) TestRecentMovements_FilterOrderLimit() {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	add := func(accountID string, offset time.Duration, amount int64) {
		suite.Require().NoError(suite.store.AppendMovement(suite.ctx, accountID, domain.Movement{
			AccountID:        accountID,
			Timestamp:        base.Add(offset),
			Kind:             domain.Deposit,
			Amount:           decimal.NewFromInt(amount),
			ResultingBalance: decimal.NewFromInt(amount),
		}))
	}
	add("u1", time.Minute, 1)
	add("u2", 2*time.Minute, 2)
	add("u1", 3*time.Minute, 3)
	add("u1", 3*time.Minute, 4)

	got, err := suite.store.RecentMovements(suite.ctx, "u1", 2)
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.True(got[0].Amount.Equal(decimal.NewFromInt(4)))
	suite.True(got[1].Amount.Equal(decimal.NewFromInt(3)))
	suite.Equal(domain.Deposit, got[0].Kind)

	none, err := suite.store.RecentMovements(suite.ctx, "u1", 0)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func TestPgxLedgerStoreTestSuite(t *testing.T) {
	suite.Run(t, new(PgxLedgerStoreTestSuite))
}
