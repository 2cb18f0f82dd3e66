// Package console runs the interactive cashier menu over the account engine.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	historyCount    = 5
	timestampLayout = "02/01/2006 15:04"
)

// ErrLoginFailed is returned by Run when the credentials match no account.
var ErrLoginFailed = errors.New("login failed")

// Console reads commands from in and writes prompts and results to out.
type Console struct {
	engine     portssvc.AccountEngineSvcFacade
	in         *bufio.Reader
	out        io.Writer
	readSecret func() (string, error)
}

// Option configures a Console.
type Option func(*Console)

// WithSecretReader replaces the line reader used for PIN entry, e.g. with a
// reader that disables terminal echo. Input already buffered by the console,
// such as pasted or typed-ahead lines, is consumed before read is called.
func WithSecretReader(read func() (string, error)) Option {
	return func(c *Console) {
		c.readSecret = read
	}
}

// New creates a console bound to engine.
func New(engine portssvc.AccountEngineSvcFacade, in io.Reader, out io.Writer, options ...Option) *Console {
	c := &Console{
		engine: engine,
		in:     bufio.NewReader(in),
		out:    out,
	}
	c.readSecret = c.readLine
	for _, option := range options {
		option(c)
	}
	return c
}

// Run performs one login and then serves the menu until the user exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	c.println("=== ATM ===")
	identifier, err := c.prompt("User (ID or name): ")
	if err != nil {
		return err
	}
	c.print("PIN: ")
	pin, err := c.readPIN()
	if err != nil {
		return err
	}

	sess, err := c.engine.Authenticate(ctx, identifier, pin)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.println("\nInvalid credentials.")
			return ErrLoginFailed
		}
		return err
	}
	acc, err := c.engine.CurrentAccount(ctx, sess)
	if err != nil {
		return err
	}
	c.printf("\nWelcome, %s.\n", acc.DisplayName)

	for {
		c.println("\n=== MAIN MENU ===")
		c.println("1. Deposit")
		c.println("2. Withdraw")
		c.println("3. Check balance")
		c.println("4. Last 5 movements")
		c.println("5. Change PIN")
		c.println("6. Exit")
		option, err := c.prompt("Select an option: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch option {
		case "1":
			c.applyAmount(ctx, sess, "Amount to deposit: ", "Deposit", c.engine.Deposit)
		case "2":
			c.applyAmount(ctx, sess, "Amount to withdraw: ", "Withdrawal", c.engine.Withdraw)
		case "3":
			c.showBalance(ctx, sess)
		case "4":
			c.showHistory(ctx, sess)
		case "5":
			if err := c.changePIN(ctx, sess); err != nil {
				return err
			}
		case "6":
			c.println("Goodbye!")
			return nil
		default:
			c.println("Invalid option.")
		}
	}
}

func (c *Console) applyAmount(ctx context.Context, sess *domain.Session, label, operation string,
	apply func(context.Context, *domain.Session, decimal.Decimal) (*domain.Movement, error)) {
	input, err := c.prompt(label)
	if err != nil {
		c.println("Error: no amount entered.")
		return
	}
	amount, err := decimal.NewFromString(input)
	if err != nil {
		c.println("Error: enter a valid amount.")
		return
	}
	movement, err := apply(ctx, sess, amount)
	if err != nil {
		c.printError(err)
		return
	}
	c.printf("%s successful. New balance: $%s\n", operation, utils.FormatAmount(movement.ResultingBalance))
}

func (c *Console) showBalance(ctx context.Context, sess *domain.Session) {
	balance, err := c.engine.Balance(ctx, sess)
	if err != nil {
		c.printError(err)
		return
	}
	c.printf("Current balance: $%s\n", utils.FormatAmount(balance))
}

func (c *Console) showHistory(ctx context.Context, sess *domain.Session) {
	movements, err := c.engine.History(ctx, sess, historyCount)
	if err != nil {
		c.printError(err)
		return
	}
	if len(movements) == 0 {
		c.println("No movements recorded.")
		return
	}
	c.println("\n=== LAST 5 MOVEMENTS ===")
	for _, m := range movements {
		c.printf("%s - %s - $%s - Balance: $%s\n",
			m.Timestamp.Local().Format(timestampLayout),
			m.Kind,
			utils.FormatAmount(m.Amount),
			utils.FormatAmount(m.ResultingBalance))
	}
}

func (c *Console) changePIN(ctx context.Context, sess *domain.Session) error {
	c.print("Current PIN: ")
	current, err := c.readPIN()
	if err != nil {
		return err
	}
	c.print("New PIN: ")
	next, err := c.readPIN()
	if err != nil {
		return err
	}
	if _, err := c.engine.ChangePIN(ctx, sess, current, next); err != nil {
		c.printError(err)
		return nil
	}
	c.println("PIN updated.")
	return nil
}

func (c *Console) printError(err error) {
	switch {
	case errors.Is(err, apperrors.ErrAmountPrecision):
		c.println("Error: the amount has too many digits.")
	case errors.Is(err, apperrors.ErrInvalidAmount):
		c.println("Error: the amount must be greater than zero.")
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.println("Error: insufficient funds.")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.println("Error: current PIN is incorrect.")
	case errors.Is(err, apperrors.ErrValidation):
		c.println("Error: the new PIN is not valid.")
	case errors.Is(err, apperrors.ErrNoSession):
		c.println("No active session.")
	case errors.Is(err, apperrors.ErrPersistence):
		c.println("Error: the operation could not be recorded.")
	default:
		c.printf("Error: %v\n", err)
	}
}

// readLine returns the next input line without its line ending.
// A final line without a newline is returned; io.EOF only comes with no input left.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPIN reads a PIN through the secret reader unless a line is already
// buffered, which the secret reader would never see.
func (c *Console) readPIN() (string, error) {
	if c.in.Buffered() > 0 {
		return c.readLine()
	}
	return c.readSecret()
}

func (c *Console) prompt(label string) (string, error) {
	c.print(label)
	line, err := c.readLine()
	return strings.TrimSpace(line), err
}

func (c *Console) print(s string) {
	fmt.Fprint(c.out, s)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
