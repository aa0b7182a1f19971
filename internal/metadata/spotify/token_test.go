package spotify

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTokenServer issues tok-1, tok-2, ... valid for expiresIn seconds.
func newTokenServer(t *testing.T, expiresIn int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)

		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "tok-` + strconv.Itoa(int(n)) +
			`", "token_type": "Bearer", "expires_in": ` + strconv.Itoa(expiresIn) + `}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAuthenticator_Token(t *testing.T) {
	var calls atomic.Int32
	server := newTokenServer(t, 3600, &calls)

	auth := NewAuthenticator("client-id", "client-secret", server.URL, 0, slog.New(slog.DiscardHandler))

	tok, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// Reused while valid.
	tok, err = auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAuthenticator_TokenRefreshedWhenExpired(t *testing.T) {
	var calls atomic.Int32
	// Tokens inside oauth2's expiry margin count as expired straight away.
	server := newTokenServer(t, 1, &calls)

	auth := NewAuthenticator("client-id", "client-secret", server.URL, 0, slog.New(slog.DiscardHandler))

	first, err := auth.Token(context.Background())
	require.NoError(t, err)
	second, err := auth.Token(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAuthenticator_MissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		secret string
	}{
		{"both missing", "", ""},
		{"secret missing", "client-id", ""},
		{"id missing", "", "client-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := newTokenServer(t, 3600, &calls)

			auth := NewAuthenticator(tt.id, tt.secret, server.URL, 0, slog.New(slog.DiscardHandler))
			assert.False(t, auth.HasCredentials())

			_, err := auth.Token(context.Background())
			assert.ErrorIs(t, err, ErrMissingCredentials)
			assert.Equal(t, int32(0), calls.Load())
		})
	}
}

func TestAuthenticator_Rejected(t *testing.T) {
	var calls atomic.Int32
	server := newTokenServer(t, 3600, &calls)

	auth := NewAuthenticator("client-id", "wrong", server.URL, 0, slog.New(slog.DiscardHandler))

	_, err := auth.Token(context.Background())
	require.Error(t, err)

	var spErr *Error
	require.ErrorAs(t, err, &spErr)
	assert.Equal(t, "token", spErr.Op)
}

func TestAuthenticator_Invalidate(t *testing.T) {
	var calls atomic.Int32
	server := newTokenServer(t, 3600, &calls)

	auth := NewAuthenticator("client-id", "client-secret", server.URL, 0, slog.New(slog.DiscardHandler))

	// Safe before any token exists.
	auth.Invalidate()

	tok, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	auth.Invalidate()

	tok, err = auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, int32(2), calls.Load())
}
