package twitchapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenURL is the Twitch OAuth2 token endpoint.
const DefaultTokenURL = "https://id.twitch.tv/oauth2/token"

// TokenSource supplies the bearer token used for Helix calls.
//
// With a ClientSecret it mints app access tokens via the client-credentials
// grant and caches them until shortly before expiry. Without one it hands out
// StaticToken unchanged.
type TokenSource struct {
	ClientID     string
	ClientSecret string
	StaticToken  string
	TokenURL     string
	HTTPClient   *http.Client

	mu  sync.Mutex
	src oauth2.TokenSource
}

// Get returns a valid (fresh or cached) token.
func (ts *TokenSource) Get(ctx context.Context) (string, error) {
	if ts.ClientSecret == "" {
		if ts.StaticToken == "" {
			return "", errors.New("no twitch token: set a static token or a client secret")
		}
		return ts.StaticToken, nil
	}

	ts.mu.Lock()
	if ts.src == nil {
		ts.src = ts.newSource()
	}
	src := ts.src
	ts.mu.Unlock()

	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("twitch app token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("empty access_token in twitch response")
	}
	return tok.AccessToken, nil
}

// Invalidate drops the cached app token so the next Get mints a new one.
// It is a no-op for static tokens.
func (ts *TokenSource) Invalidate() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.src = nil
}

func (ts *TokenSource) newSource() oauth2.TokenSource {
	tokenURL := ts.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	cc := &clientcredentials.Config{
		ClientID:     ts.ClientID,
		ClientSecret: ts.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	// The source outlives any single request, so it gets its own context.
	ctx := context.Background()
	if ts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, ts.HTTPClient)
	}
	return cc.TokenSource(ctx)
}
