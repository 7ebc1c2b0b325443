package youtubeapi

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/jlark1127/watchnwaitbot/live"
)

// maxIDsPerCall is the channels.list page limit for the id filter.
const maxIDsPerCall = 50

// ErrChannelNotFound is returned when channels.list does not know a channel id.
var ErrChannelNotFound = errors.New("channel not found")

// UploadsProbe infers live state from a channel's most recent upload:
// channel -> uploads playlist -> newest item -> video liveBroadcastContent.
//
// Uploads playlist ids never change, so they are resolved once for every
// configured channel in a single batched channels.list call and cached.
type UploadsProbe struct {
	svc      *Service
	channels []string

	mu      sync.Mutex
	uploads map[string]string
}

// NewUploadsProbe returns a probe that resolves all of channels together.
func NewUploadsProbe(svc *Service, channels []string) *UploadsProbe {
	return &UploadsProbe{svc: svc, channels: slices.Clone(channels), uploads: make(map[string]string)}
}

// Probe reports whether channelID is currently broadcasting.
func (p *UploadsProbe) Probe(ctx context.Context, channelID string) (live.Observation, error) {
	playlistID, err := p.uploadsPlaylist(ctx, channelID)
	if err != nil {
		return live.Offline, err
	}

	videoID, err := p.latestUpload(ctx, channelID, playlistID)
	if err != nil || videoID == "" {
		return live.Offline, err
	}

	state, err := p.broadcastState(ctx, channelID, videoID)
	if err != nil {
		return live.Offline, err
	}
	if state != "live" {
		return live.Offline, nil
	}
	return live.LiveAt(live.WatchURL(videoID)), nil
}

func (p *UploadsProbe) uploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.uploads[channelID]; ok {
		return id, nil
	}
	if err := p.resolveLocked(ctx, channelID); err != nil {
		return "", probeError("channels", channelID, err)
	}
	id, ok := p.uploads[channelID]
	if !ok {
		return "", probeError("channels", channelID, ErrChannelNotFound)
	}
	return id, nil
}

// resolveLocked fetches uploads playlists for every channel not yet cached,
// including channelID even if it was not part of the configured set.
func (p *UploadsProbe) resolveLocked(ctx context.Context, channelID string) error {
	var pending []string
	for _, id := range p.channels {
		if _, ok := p.uploads[id]; !ok {
			pending = append(pending, id)
		}
	}
	if !slices.Contains(pending, channelID) {
		pending = append(pending, channelID)
	}

	for batch := range slices.Chunk(pending, maxIDsPerCall) {
		cctx, cancel := p.svc.callContext(ctx)
		resp, err := p.svc.api.Channels.List([]string{"contentDetails"}).
			Id(batch...).
			MaxResults(maxIDsPerCall).
			Context(cctx).
			Do()
		cancel()
		if err != nil {
			return err
		}
		for _, ch := range resp.Items {
			if ch.ContentDetails == nil || ch.ContentDetails.RelatedPlaylists == nil || ch.ContentDetails.RelatedPlaylists.Uploads == "" {
				slog.Warn("youtube channel has no uploads playlist",
					slog.String("component", "youtube_probe"), slog.String("channel_id", ch.Id))
				continue
			}
			p.uploads[ch.Id] = ch.ContentDetails.RelatedPlaylists.Uploads
		}
	}
	slog.Debug("youtube uploads playlists resolved",
		slog.String("component", "youtube_probe"), slog.Int("requested", len(pending)), slog.Int("cached", len(p.uploads)))
	return nil
}

func (p *UploadsProbe) latestUpload(ctx context.Context, channelID, playlistID string) (string, error) {
	cctx, cancel := p.svc.callContext(ctx)
	defer cancel()

	resp, err := p.svc.api.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(1).
		Context(cctx).
		Do()
	if err != nil {
		return "", probeError("playlistItems", channelID, err)
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	item := resp.Items[0]
	if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
		slog.Warn("youtube playlist item without video id; treating as offline",
			slog.String("component", "youtube_probe"), slog.String("channel_id", channelID))
		return "", nil
	}
	return item.ContentDetails.VideoId, nil
}

func (p *UploadsProbe) broadcastState(ctx context.Context, channelID, videoID string) (string, error) {
	cctx, cancel := p.svc.callContext(ctx)
	defer cancel()

	resp, err := p.svc.api.Videos.List([]string{"snippet"}).
		Id(videoID).
		Context(cctx).
		Do()
	if err != nil {
		return "", probeError("videos", channelID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		slog.Warn("youtube video details missing; treating as offline",
			slog.String("component", "youtube_probe"), slog.String("channel_id", channelID), slog.String("video_id", videoID))
		return "", nil
	}
	return resp.Items[0].Snippet.LiveBroadcastContent, nil
}
