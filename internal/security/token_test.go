package security_test

import (
	"testing"
	"time"

	"keyportal-backend/internal/security"

	"github.com/stretchr/testify/assert"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := security.NewTokenManager("test-secret", time.Hour)

	token, err := tm.GenerateAccessToken(7, "mgr@test.com", "MANAGER")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int32(7), claims.OperatorID)
	assert.Equal(t, "mgr@test.com", claims.Email)
	assert.Equal(t, "MANAGER", claims.Role)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := security.NewTokenManager("test-secret", -time.Minute)

	token, err := tm.GenerateAccessToken(7, "mgr@test.com", "MANAGER")
	assert.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, security.ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := security.NewTokenManager("secret-a", time.Hour).GenerateAccessToken(7, "", "")
	assert.NoError(t, err)

	_, err = security.NewTokenManager("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}
