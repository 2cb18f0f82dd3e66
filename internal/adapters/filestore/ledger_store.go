// Package filestore keeps the account directory and the movement log as two
// delimited text files in a data directory.
//
// The store is not safe for concurrent processes: two processes sharing the
// same files can interleave writes.
package filestore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/SscSPs/atm_ledger/internal/codec"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/atm_ledger/internal/core/ports/repositories"
)

// Default file names inside the data directory.
const (
	DefaultAccountsFile  = "usuarios.csv"
	DefaultMovementsFile = "movimientos.csv"
)

const maxLineSize = 1 << 20

// FileLedgerStore implements portsrepo.LedgerStoreFacade on local files.
type FileLedgerStore struct {
	accountsPath  string
	movementsPath string
	logger        *slog.Logger
}

// Ensure FileLedgerStore implements portsrepo.LedgerStoreFacade
var _ portsrepo.LedgerStoreFacade = (*FileLedgerStore)(nil)

// NewFileLedgerStore creates a store for the given file paths. Relative file
// names are resolved against dir. Empty names fall back to the defaults.
func NewFileLedgerStore(dir, accountsFile, movementsFile string, logger *slog.Logger) *FileLedgerStore {
	if accountsFile == "" {
		accountsFile = DefaultAccountsFile
	}
	if movementsFile == "" {
		movementsFile = DefaultMovementsFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileLedgerStore{
		accountsPath:  resolve(dir, accountsFile),
		movementsPath: resolve(dir, movementsFile),
		logger:        logger,
	}
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// AccountsPath returns the account directory file path.
func (s *FileLedgerStore) AccountsPath() string { return s.accountsPath }

// MovementsPath returns the movement log file path.
func (s *FileLedgerStore) MovementsPath() string { return s.movementsPath }

// LoadAccounts reads the account directory. Rows that cannot be decoded are skipped.
func (s *FileLedgerStore) LoadAccounts(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	accounts := []domain.Account{}
	skipped, err := scanRecords(s.accountsPath, func(line string) error {
		a, err := codec.DecodeAccount(line)
		if err != nil {
			return err
		}
		accounts = append(accounts, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts from %s: %w", s.accountsPath, err)
	}
	if skipped > 0 {
		s.logger.Debug("Skipped malformed account rows",
			slog.String("path", s.accountsPath),
			slog.Int("skipped", skipped))
	}
	return accounts, nil
}

// SaveAccounts atomically replaces the account directory: the content is written
// to a temporary file in the same directory and renamed over the old one.
func (s *FileLedgerStore) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString(codec.EncodeHeader(codec.AccountHeader))
	buf.WriteByte('\n')
	for _, a := range accounts {
		line, err := codec.EncodeAccount(a)
		if err != nil {
			return fmt.Errorf("failed to encode account directory: %w", err)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := writeFileAtomic(s.accountsPath, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save accounts to %s: %w", s.accountsPath, err)
	}
	return nil
}

// AppendMovement appends one line to the movement log, writing the header first
// when the log is new or empty. Header and line go out in a single write.
func (s *FileLedgerStore) AppendMovement(ctx context.Context, accountID string, movement domain.Movement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := codec.EncodeMovement(accountID, movement)
	if err != nil {
		return fmt.Errorf("failed to encode movement: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.movementsPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.OpenFile(s.movementsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open movement log %s: %w", s.movementsPath, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat movement log %s: %w", s.movementsPath, err)
	}

	var buf bytes.Buffer
	if info.Size() == 0 {
		buf.WriteString(codec.EncodeHeader(codec.MovementHeader))
		buf.WriteByte('\n')
	}
	buf.WriteString(line)
	buf.WriteByte('\n')

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to movement log %s: %w", s.movementsPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync movement log %s: %w", s.movementsPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close movement log %s: %w", s.movementsPath, err)
	}
	return nil
}

// RecentMovements reads the whole log and returns at most count movements of
// accountID, newest timestamp first. Movements with equal timestamps are
// returned in reverse append order.
func (s *FileLedgerStore) RecentMovements(ctx context.Context, accountID string, count int) ([]domain.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return []domain.Movement{}, nil
	}

	var matched []domain.Movement
	skipped, err := scanRecords(s.movementsPath, func(line string) error {
		m, err := codec.DecodeMovement(line)
		if err != nil {
			return err
		}
		if m.AccountID == accountID {
			matched = append(matched, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read movement log %s: %w", s.movementsPath, err)
	}
	if skipped > 0 {
		s.logger.Debug("Skipped malformed movement rows",
			slog.String("path", s.movementsPath),
			slog.Int("skipped", skipped))
	}

	return newestFirst(matched, count), nil
}

// newestFirst orders movements (given in append order) by timestamp descending
// and keeps the first count.
func newestFirst(movements []domain.Movement, count int) []domain.Movement {
	slices.Reverse(movements)
	slices.SortStableFunc(movements, func(a, b domain.Movement) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(movements) > count {
		movements = movements[:count]
	}
	if movements == nil {
		return []domain.Movement{}
	}
	return movements
}

// scanRecords calls decode for every non-blank line after the header. Lines
// rejected by decode with codec.ErrMalformedRecord are counted and skipped; a
// missing file is treated as empty.
func scanRecords(path string, decode func(line string) error) (skipped int, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	header := true
	for scanner.Scan() {
		line := scanner.Text()
		if header {
			header = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := decode(line); err != nil {
			if errors.Is(err, codec.ErrMalformedRecord) {
				skipped++
				continue
			}
			return skipped, err
		}
	}
	return skipped, scanner.Err()
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
