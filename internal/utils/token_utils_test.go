package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/atm_ledger/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := utils.GenerateJWT("u1", "secret", time.Hour, "atm-ledger")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "atm-ledger", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	valid, err := utils.GenerateJWT("u1", "secret", time.Hour, "atm-ledger")
	require.NoError(t, err)
	expired, err := utils.GenerateJWT("u1", "secret", -time.Minute, "atm-ledger")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = utils.ParseAndValidateJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = utils.ParseAndValidateJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestGenerateJWT_EmptySubject(t *testing.T) {
	_, err := utils.GenerateJWT("", "secret", time.Hour, "atm-ledger")
	assert.ErrorIs(t, err, utils.ErrMissingSubject)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.30", utils.FormatAmount(decimal.RequireFromString("12.3")))
	assert.Equal(t, "0.00", utils.FormatAmount(decimal.Zero))
	assert.Equal(t, "12.35", utils.FormatWithPrecision(decimal.RequireFromString("12.3456"), 2))
}
