package spotify

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/listenupapp/moodshelf/internal/metrics"
)

// DefaultTokenURL is the Spotify accounts token endpoint.
const DefaultTokenURL = "https://accounts.spotify.com/api/token"

// Authenticator obtains app-only access tokens with the client-credentials
// grant. A token is reused until it expires.
type Authenticator struct {
	cfg    *clientcredentials.Config
	http   *http.Client
	logger *slog.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

// NewAuthenticator creates an Authenticator. Empty credentials are allowed;
// Token then fails with ErrMissingCredentials without touching the network.
func NewAuthenticator(clientID, clientSecret, tokenURL string, timeout time.Duration, logger *slog.Logger) *Authenticator {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Authenticator{
		cfg: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// HasCredentials reports whether both client id and secret are set.
func (a *Authenticator) HasCredentials() bool {
	return a.cfg.ClientID != "" && a.cfg.ClientSecret != ""
}

// Token returns a valid bearer token, exchanging credentials when the cached
// token is missing or expired.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	if !a.HasCredentials() {
		return "", wrapError("token", "", ErrMissingCredentials)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token.Valid() {
		return a.token.AccessToken, nil
	}

	start := time.Now()
	tok, err := a.cfg.Token(context.WithValue(ctx, oauth2.HTTPClient, a.http))
	metrics.RecordUpstream("spotify_token", time.Since(start), err)
	if err != nil {
		return "", wrapError("token", "", err)
	}

	a.logger.Debug("spotify token acquired", "expires", tok.Expiry)
	a.token = tok
	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next Token call exchanges
// credentials again. Call it after the API rejects a token.
func (a *Authenticator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != nil {
		a.logger.Debug("spotify token invalidated")
	}
	a.token = nil
}
