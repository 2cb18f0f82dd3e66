package codec

import (
	"fmt"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

// Header lines of the two persisted files.
var (
	AccountHeader  = []string{"Id", "Nombre", "Pin", "Saldo"}
	MovementHeader = []string{"UsuarioId", "Fecha", "Tipo", "Monto", "SaldoResultante"}
)

// EncodeHeader renders a header line.
func EncodeHeader(columns []string) string {
	line, _ := EncodeRecord(columns) // header columns are constant and always encodable
	return line
}

// EncodeAccount renders an account as id, display name, PIN, balance.
func EncodeAccount(a domain.Account) (string, error) {
	line, err := EncodeRecord([]string{a.ID, a.DisplayName, a.PIN, FormatDecimal(a.Balance)})
	if err != nil {
		return "", fmt.Errorf("account %s: %w", a.ID, err)
	}
	return line, nil
}

// DecodeAccount parses one account line. Short lines, unparsable or negative
// balances yield ErrMalformedRecord.
func DecodeAccount(line string) (domain.Account, error) {
	cols, err := DecodeFields(line, len(AccountHeader))
	if err != nil {
		return domain.Account{}, err
	}
	balance, err := ParseDecimal(cols[3])
	if err != nil {
		return domain.Account{}, err
	}
	if balance.IsNegative() {
		return domain.Account{}, fmt.Errorf("%w: negative balance %s", ErrMalformedRecord, cols[3])
	}
	return domain.Account{
		ID:          cols[0],
		DisplayName: cols[1],
		PIN:         cols[2],
		Balance:     balance,
	}, nil
}

// EncodeMovement renders a movement as account id, timestamp, kind, amount, resulting balance.
func EncodeMovement(accountID string, m domain.Movement) (string, error) {
	line, err := EncodeRecord([]string{
		accountID,
		FormatTime(m.Timestamp),
		string(m.Kind),
		FormatDecimal(m.Amount),
		FormatDecimal(m.ResultingBalance),
	})
	if err != nil {
		return "", fmt.Errorf("movement for %s: %w", accountID, err)
	}
	return line, nil
}

// DecodeMovement parses one movement line.
func DecodeMovement(line string) (domain.Movement, error) {
	cols, err := DecodeFields(line, len(MovementHeader))
	if err != nil {
		return domain.Movement{}, err
	}
	ts, err := ParseTime(cols[1])
	if err != nil {
		return domain.Movement{}, err
	}
	kind, err := domain.ParseMovementKind(cols[2])
	if err != nil {
		return domain.Movement{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	amount, err := ParseDecimal(cols[3])
	if err != nil {
		return domain.Movement{}, err
	}
	resulting, err := ParseDecimal(cols[4])
	if err != nil {
		return domain.Movement{}, err
	}
	return domain.Movement{
		AccountID:        cols[0],
		Timestamp:        ts,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: resulting,
	}, nil
}
