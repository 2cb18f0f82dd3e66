package adapters_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/SscSPs/atm_ledger/internal/adapters"
	"github.com/SscSPs/atm_ledger/internal/adapters/filestore"
	"github.com/SscSPs/atm_ledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerStore_File(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{StoreBackend: config.StoreBackendFile, DataDir: dir, AccountsFile: "a.csv", MovementsFile: "m.csv"}

	store, closeFn, err := adapters.NewLedgerStore(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	defer closeFn()

	fileStore, ok := store.(*filestore.FileLedgerStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a.csv"), fileStore.AccountsPath())
	assert.Equal(t, filepath.Join(dir, "m.csv"), fileStore.MovementsPath())
}

func TestNewLedgerStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{StoreBackend: "redis"}

	_, _, err := adapters.NewLedgerStore(context.Background(), cfg, slog.Default())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
