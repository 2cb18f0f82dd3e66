// Package adapters selects the persistence adapter behind the ledger store port.
package adapters

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/atm_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/atm_ledger/internal/adapters/filestore"
	portsrepo "github.com/SscSPs/atm_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/atm_ledger/pkg/config"
	"github.com/SscSPs/atm_ledger/pkg/database"
)

// NewLedgerStore opens the store named by cfg.StoreBackend.
// The returned close function must be called once the store is no longer used.
func NewLedgerStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.LedgerStoreFacade, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendFile, "":
		store := filestore.NewFileLedgerStore(cfg.DataDir, cfg.AccountsFile, cfg.MovementsFile, logger)
		logger.Info("Using file ledger store",
			slog.String("accounts", store.AccountsPath()),
			slog.String("movements", store.MovementsPath()))
		return store, func() {}, nil

	case config.StoreBackendPostgres:
		logger.Info("Running database migrations...")
		if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return nil, nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewPgxLedgerStore(pool), func() { database.ClosePgxPool(pool) }, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown STORE_BACKEND %q", config.ErrInvalidConfig, cfg.StoreBackend)
	}
}
