package twitchapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlark1127/watchnwaitbot/testutil"
)

func TestTokenSourceStatic(t *testing.T) {
	tok, err := (&TokenSource{StaticToken: "static"}).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static", tok)

	_, err = (&TokenSource{}).Get(context.Background())
	assert.Error(t, err)
}

func TestTokenSourceClientCredentials(t *testing.T) {
	m := testutil.NewMockTwitchServer(t)
	m.Handle("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "test-secret", r.PostForm.Get("client_secret"))
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"access_token": "minted", "expires_in": 3600, "token_type": "bearer"})
	})

	ts := &TokenSource{
		ClientID:     "test-client-id",
		ClientSecret: "test-secret",
		StaticToken:  "ignored-when-secret-set",
		TokenURL:     m.URL + "/oauth2/token",
		HTTPClient:   m.Client(),
	}
	for i := 0; i < 3; i++ {
		tok, err := ts.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "minted", tok)
	}
	assert.Equal(t, 1, m.Hits("/oauth2/token"), "token is cached until expiry")

	ts.Invalidate()
	_, err := ts.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.Hits("/oauth2/token"))
}

func TestTokenSourceEndpointFailure(t *testing.T) {
	m := testutil.NewMockTwitchServer(t)
	m.Handle("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "invalid client secret"})
	})

	ts := &TokenSource{ClientID: "id", ClientSecret: "bad", TokenURL: m.URL + "/oauth2/token", HTTPClient: m.Client()}
	_, err := ts.Get(context.Background())
	assert.Error(t, err)
}
