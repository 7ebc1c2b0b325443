package twitchapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jlark1127/watchnwaitbot/live"
)

// StreamProbe checks one login per call against /helix/streams.
type StreamProbe struct {
	Helix *HelixClient
}

// Probe reports whether login is currently streaming.
func (p *StreamProbe) Probe(ctx context.Context, login string) (live.Observation, error) {
	streams, err := p.Helix.GetStreams(ctx, login)
	if err != nil {
		pe := &live.ProbeError{Platform: live.Twitch, Creator: login, Stage: "streams", Err: err}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			pe.Status = apiErr.Status
		}
		return live.Offline, pe
	}
	if len(streams) == 0 {
		return live.Offline, nil
	}
	slog.Debug("twitch stream live",
		slog.String("component", "twitch"), slog.String("login", streams[0].UserLogin), slog.String("title", streams[0].Title))
	return live.LiveAt(live.ChannelURL(login)), nil
}
