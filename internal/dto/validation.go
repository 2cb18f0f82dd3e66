package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrValidatorInit is returned when custom validator registration fails.
var ErrValidatorInit = errors.New("validator initialization failed")

// RegisterValidators adds the custom rules used by the request DTOs to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("%w: gin validator engine is not go-playground/validator", ErrValidatorInit)
	}
	return registerDecimalRules(v)
}

func registerDecimalRules(v *validator.Validate) error {
	if err := v.RegisterValidation("decimal_positive", decimalPositive); err != nil {
		return fmt.Errorf("%w: failed to register 'decimal_positive': %w", ErrValidatorInit, err)
	}
	return nil
}

// decimalPositive accepts decimal values and numeric strings greater than zero
// that fit the stored amount precision.
func decimalPositive(fl validator.FieldLevel) bool {
	var d decimal.Decimal
	switch value := fl.Field().Interface().(type) {
	case decimal.Decimal:
		d = value
	case json.Number:
		parsed, err := decimal.NewFromString(value.String())
		if err != nil {
			return false
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return false
		}
		d = parsed
	default:
		return false
	}
	return d.IsPositive() && domain.WithinPrecision(d)
}
