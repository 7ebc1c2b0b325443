// Package youtubeapi wraps the YouTube Data API for the single purpose of
// answering "is this channel broadcasting right now?". Two probe strategies are
// provided: SearchProbe asks the search endpoint for live events, UploadsProbe
// infers live state from the newest upload and costs far less quota.
package youtubeapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/jlark1127/watchnwaitbot/live"
)

const defaultTimeout = 10 * time.Second

// Service holds the API client shared by the probes.
type Service struct {
	api     *yt.Service
	timeout time.Duration
}

// New builds a Service authenticated with apiKey. Each API call is bounded by
// timeout. Extra options are appended after the key, mainly for tests.
func New(ctx context.Context, apiKey string, timeout time.Duration, opts ...option.ClientOption) (*Service, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	var all []option.ClientOption
	if apiKey != "" {
		all = append(all, option.WithAPIKey(apiKey))
	}
	all = append(all, opts...)
	api, err := yt.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &Service{api: api, timeout: timeout}, nil
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func probeError(stage, channelID string, err error) *live.ProbeError {
	pe := &live.ProbeError{Platform: live.YouTube, Creator: channelID, Stage: stage, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		pe.Status = gerr.Code
	}
	return pe
}
