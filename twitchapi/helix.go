// Package twitchapi contains the Twitch Helix helpers used to check whether a
// broadcaster is live, authenticated with a client id and bearer token.
package twitchapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nicklaw5/helix/v2"
)

// APIError is a non-2xx Helix response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("helix: HTTP %d", e.Status)
	}
	return fmt.Sprintf("helix: HTTP %d: %s", e.Status, e.Message)
}

// StreamInfo describes a live stream.
type StreamInfo struct {
	UserLogin string
	Title     string
}

// HelixClient provides the minimal Helix surface needed for live detection.
type HelixClient struct {
	AppTokenSource *TokenSource
	ClientID       string
	HTTPClient     *http.Client
	// BaseURL overrides the Helix API root, mainly for tests.
	BaseURL string
}

// api builds a client bound to ctx; helix carries the context on every request
// the client sends, so a client is built per call.
func (hc *HelixClient) api(ctx context.Context) (*helix.Client, error) {
	opts := &helix.Options{
		ClientID:   hc.ClientID,
		APIBaseURL: hc.BaseURL,
	}
	if hc.HTTPClient != nil {
		opts.HTTPClient = hc.HTTPClient
	}
	client, err := helix.NewClientWithContext(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("helix: NewClient: %w", err)
	}
	return client, nil
}

// GetStreams returns the live streams among logins; offline logins are simply
// absent from the result.
func (hc *HelixClient) GetStreams(ctx context.Context, logins ...string) ([]StreamInfo, error) {
	if len(logins) == 0 {
		return nil, errors.New("logins empty")
	}
	tok, err := hc.AppTokenSource.Get(ctx)
	if err != nil {
		return nil, err
	}
	client, err := hc.api(ctx)
	if err != nil {
		return nil, err
	}
	client.SetAppAccessToken(tok)

	resp, err := client.GetStreams(&helix.StreamsParams{UserLogins: logins, First: len(logins)})
	if err != nil {
		// Report cancellation as the context error so callers can match it.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("helix: GetStreams: %w", ctxErr)
		}
		return nil, fmt.Errorf("helix: GetStreams: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		hc.AppTokenSource.Invalidate()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: resp.ErrorMessage}
	}

	out := make([]StreamInfo, 0, len(resp.Data.Streams))
	for _, s := range resp.Data.Streams {
		out = append(out, StreamInfo{UserLogin: s.UserLogin, Title: s.Title})
	}
	return out, nil
}
