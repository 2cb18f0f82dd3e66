package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/atm_ledger/internal/adapters/filestore"
	"github.com/SscSPs/atm_ledger/internal/console"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (portssvc.AccountEngineSvcFacade, *filestore.FileLedgerStore) {
	t.Helper()
	store := filestore.NewFileLedgerStore(t.TempDir(), "", "", nil)
	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	engine, err := services.NewAccountEngine(context.Background(), store, services.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	require.NoError(t, err)
	_, err = engine.EnsureDemoAccount(context.Background())
	require.NoError(t, err)
	return engine, store
}

func run(t *testing.T, engine portssvc.AccountEngineSvcFacade, lines ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	err := console.New(engine, in, &out).Run(context.Background())
	return out.String(), err
}

func TestConsole_FullSession(t *testing.T) {
	engine, store := newEngine(t)

	out, err := run(t, engine,
		"Demo", "1234",
		"1", "100",
		"2", "150",
		"2", "40.5",
		"3",
		"4",
		"6",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome, Demo.")
	assert.Contains(t, out, "Deposit successful. New balance: $100.00")
	assert.Contains(t, out, "Error: insufficient funds.")
	assert.Contains(t, out, "Withdrawal successful. New balance: $59.50")
	assert.Contains(t, out, "Current balance: $59.50")
	assert.Contains(t, out, "=== LAST 5 MOVEMENTS ===")
	assert.Contains(t, out, " - Withdrawal - $40.50 - Balance: $59.50")
	assert.Contains(t, out, " - Deposit - $100.00 - Balance: $100.00")
	assert.Less(t, strings.Index(out, " - Withdrawal - $40.50"), strings.Index(out, " - Deposit - $100.00"))
	assert.Contains(t, out, "Goodbye!")

	movements, err := store.RecentMovements(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestConsole_InvalidCredentials(t *testing.T) {
	engine, _ := newEngine(t)

	out, err := run(t, engine, "Demo", "0000")

	assert.ErrorIs(t, err, console.ErrLoginFailed)
	assert.Contains(t, out, "Invalid credentials.")
	assert.NotContains(t, out, "MAIN MENU")
}

func TestConsole_InputErrors(t *testing.T) {
	engine, _ := newEngine(t)

	out, err := run(t, engine,
		"u1", "1234",
		"1", "ten",
		"1", "0",
		"9",
		"4",
	)
	require.NoError(t, err) // input ends, the menu stops

	assert.Contains(t, out, "Error: enter a valid amount.")
	assert.Contains(t, out, "Error: the amount must be greater than zero.")
	assert.Contains(t, out, "Invalid option.")
	assert.Contains(t, out, "No movements recorded.")
}

func TestConsole_ChangePIN(t *testing.T) {
	engine, _ := newEngine(t)

	out, err := run(t, engine,
		"Demo", "1234",
		"5", "9999", "5678",
		"5", "1234", "   ",
		"5", "1234", "5678",
		"6",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Error: current PIN is incorrect.")
	assert.Contains(t, out, "Error: the new PIN is not valid.")
	assert.Contains(t, out, "PIN updated.")

	_, err = run(t, engine, "Demo", "5678", "6")
	assert.NoError(t, err)
}

func TestConsole_RejectsOverPreciseAmounts(t *testing.T) {
	engine, store := newEngine(t)

	out, err := run(t, engine, "Demo", "1234", "1", "1e-200000", "2", "1e40", "6")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Error: the amount has too many digits."))

	movements, err := store.RecentMovements(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestConsole_SecretReader(t *testing.T) {
	engine, _ := newEngine(t)
	secrets := []string{"1234"}
	var out bytes.Buffer

	c := console.New(engine, &lineReader{lines: []string{"Demo\n", "6\n"}}, &out, console.WithSecretReader(func() (string, error) {
		s := secrets[0]
		secrets = secrets[1:]
		return s, nil
	}))

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "Welcome, Demo.")
	assert.Empty(t, secrets)
}

func TestConsole_BufferedPINBypassesSecretReader(t *testing.T) {
	engine, _ := newEngine(t)
	var out bytes.Buffer

	c := console.New(engine, strings.NewReader("Demo\n1234\n5\n1234\n4321\n6\n"), &out,
		console.WithSecretReader(func() (string, error) {
			return "", errors.New("secret reader must not be used while input is buffered")
		}))

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "Welcome, Demo.")
	assert.Contains(t, out.String(), "PIN updated.")

	_, err := engine.Authenticate(context.Background(), "Demo", "4321")
	assert.NoError(t, err)
}

// lineReader hands out one line per Read, like a terminal in canonical mode.
type lineReader struct {
	lines []string
}

func (r *lineReader) Read(p []byte) (int, error) {
	if len(r.lines) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.lines[0])
	r.lines[0] = r.lines[0][n:]
	if r.lines[0] == "" {
		r.lines = r.lines[1:]
	}
	return n, nil
}
