package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates a deposit or withdrawal amount that is zero, negative
// or too precise to store.
var ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)

// ErrAmountPrecision indicates an amount, or the balance it would produce, with more
// digits than a stored balance can hold.
var ErrAmountPrecision = fmt.Errorf("%w: too many digits", ErrInvalidAmount)

// ErrInsufficientFunds indicates a withdrawal larger than the available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidCredentials indicates an identifier/PIN pair that matches no account,
// or a current PIN that does not match the stored one.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoSession indicates an operation attempted without an authenticated session.
var ErrNoSession = errors.New("no active session")

// ErrPersistence indicates that a required durable write did not complete.
var ErrPersistence = errors.New("persistence failure")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
