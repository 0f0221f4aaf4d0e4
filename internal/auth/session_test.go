package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret-key-for-testing-purposes", 7*24*time.Hour)
}

func TestNewTokenService(t *testing.T) {
	service := newTestTokenService()
	assert.NotNil(t, service)
	assert.Equal(t, 7*24*time.Hour, service.GetExpiry())
}

func TestTokenService_GenerateSessionToken_Success(t *testing.T) {
	service := newTestTokenService()

	token, expiresAt, err := service.GenerateSessionToken("sess-123")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(8*24*time.Hour)))
}

func TestTokenService_ValidateSessionToken_Valid(t *testing.T) {
	service := newTestTokenService()

	token, _, err := service.GenerateSessionToken("sess-456")
	require.NoError(t, err)

	sessionID, err := service.ValidateSessionToken(token)

	require.NoError(t, err)
	assert.Equal(t, "sess-456", sessionID)
}

func TestTokenService_ValidateSessionToken_Expired(t *testing.T) {
	service := NewTokenService("test-secret", 1*time.Millisecond)

	token, _, err := service.GenerateSessionToken("sess-123")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	sessionID, err := service.ValidateSessionToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Empty(t, sessionID)
}

func TestTokenService_ValidateSessionToken_Invalid(t *testing.T) {
	service := newTestTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionID, err := service.ValidateSessionToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, sessionID)
		})
	}
}

func TestTokenService_ValidateSessionToken_WrongSignature(t *testing.T) {
	service1 := NewTokenService("secret-key-1", time.Hour)
	service2 := NewTokenService("secret-key-2", time.Hour)

	token, _, err := service1.GenerateSessionToken("sess-123")
	require.NoError(t, err)

	sessionID, err := service2.ValidateSessionToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, sessionID)
}

func TestTokenService_ValidateSessionToken_WrongAlgorithm(t *testing.T) {
	service := newTestTokenService()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &SessionClaims{SessionID: "sess-123"})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	sessionID, err := service.ValidateSessionToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, sessionID)
}

func TestTokenService_ValidateSessionToken_EmptySessionID(t *testing.T) {
	service := newTestTokenService()

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret-key-for-testing-purposes"))
	require.NoError(t, err)

	sessionID, err := service.ValidateSessionToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, sessionID)
}
