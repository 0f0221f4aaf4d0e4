package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/commerce-agent/internal/auth"
)

func sessionEcho(t *testing.T, tokens *auth.TokenService, mutate func(*http.Request)) string {
	t.Helper()
	var got string
	handler := WithSession(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	mutate(req)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestWithSession_BearerToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret-key-for-testing-purposes", time.Hour)
	token, _, err := tokens.GenerateSessionToken("sess-bearer")
	require.NoError(t, err)

	got := sessionEcho(t, tokens, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, "sess-bearer", got)
}

func TestWithSession_Cookie(t *testing.T) {
	tokens := auth.NewTokenService("test-secret-key-for-testing-purposes", time.Hour)
	token, _, err := tokens.GenerateSessionToken("sess-cookie")
	require.NoError(t, err)

	got := sessionEcho(t, tokens, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	})

	assert.Equal(t, "sess-cookie", got)
}

func TestWithSession_HeaderFallback(t *testing.T) {
	tokens := auth.NewTokenService("test-secret-key-for-testing-purposes", time.Hour)

	got := sessionEcho(t, tokens, func(r *http.Request) {
		r.Header.Set("X-Session-ID", "sess-header")
	})

	assert.Equal(t, "sess-header", got)
}

func TestWithSession_InvalidTokenFallsBackToHeader(t *testing.T) {
	tokens := auth.NewTokenService("test-secret-key-for-testing-purposes", time.Hour)

	got := sessionEcho(t, tokens, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-token")
		r.Header.Set("X-Session-ID", "sess-fallback")
	})

	assert.Equal(t, "sess-fallback", got)
}

func TestWithSession_NoSession(t *testing.T) {
	tokens := auth.NewTokenService("test-secret-key-for-testing-purposes", time.Hour)

	got := sessionEcho(t, tokens, func(*http.Request) {})

	assert.Empty(t, got)
}
