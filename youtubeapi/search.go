package youtubeapi

import (
	"context"
	"log/slog"

	"github.com/jlark1127/watchnwaitbot/live"
)

// SearchProbe detects live broadcasts with search.list filtered to
// eventType=live. Every call costs 100 quota units.
type SearchProbe struct {
	svc *Service
}

func NewSearchProbe(svc *Service) *SearchProbe { return &SearchProbe{svc: svc} }

// Probe reports whether channelID is currently broadcasting.
func (p *SearchProbe) Probe(ctx context.Context, channelID string) (live.Observation, error) {
	cctx, cancel := p.svc.callContext(ctx)
	defer cancel()

	resp, err := p.svc.api.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		EventType("live").
		Type("video").
		MaxResults(1).
		Context(cctx).
		Do()
	if err != nil {
		return live.Offline, probeError("search", channelID, err)
	}
	if len(resp.Items) == 0 {
		return live.Offline, nil
	}
	item := resp.Items[0]
	if item.Id == nil || item.Id.VideoId == "" {
		slog.Warn("youtube search result without video id; treating as offline",
			slog.String("component", "youtube_probe"), slog.String("channel_id", channelID))
		return live.Offline, nil
	}
	return live.LiveAt(live.WatchURL(item.Id.VideoId)), nil
}
