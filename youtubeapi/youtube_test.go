package youtubeapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/jlark1127/watchnwaitbot/live"
	"github.com/jlark1127/watchnwaitbot/testutil"
)

func newTestService(t *testing.T, m *testutil.MockYouTubeServer, timeout time.Duration) *Service {
	t.Helper()
	svc, err := New(context.Background(), "", timeout,
		option.WithEndpoint(m.URL+"/"),
		option.WithHTTPClient(m.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestSearchProbeLive(t *testing.T) {
	m := testutil.NewMockYouTubeServer(t)
	m.Handle("/youtube/v3/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "UCalice", q.Get("channelId"))
		assert.Equal(t, "live", q.Get("eventType"))
		assert.Equal(t, "video", q.Get("type"))
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{{"id": map[string]any{"kind": "youtube#video", "videoId": "xyz123"}}},
		})
	})

	obs, err := NewSearchProbe(newTestService(t, m, time.Second)).Probe(context.Background(), "UCalice")
	require.NoError(t, err)
	assert.Equal(t, live.LiveAt("https://youtube.com/watch?v=xyz123"), obs)
}

func TestSearchProbeOffline(t *testing.T) {
	m := testutil.NewMockYouTubeServer(t)
	m.MockSearch(map[string]string{"UCother": "v1"})

	obs, err := NewSearchProbe(newTestService(t, m, time.Second)).Probe(context.Background(), "UCalice")
	require.NoError(t, err)
	assert.False(t, obs.Live)
}

func TestSearchProbeMissingVideoID(t *testing.T) {
	m := testutil.NewMockYouTubeServer(t)
	m.Handle("/youtube/v3/search", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{{"kind": "youtube#searchResult"}}})
	})

	obs, err := NewSearchProbe(newTestService(t, m, time.Second)).Probe(context.Background(), "UCalice")
	require.NoError(t, err)
	assert.Equal(t, live.Offline, obs)
}

func TestSearchProbeQuotaExceeded(t *testing.T) {
	m := testutil.NewMockYouTubeServer(t)
	m.MockStatus("/youtube/v3/search", http.StatusForbidden, "quotaExceeded")

	_, err := NewSearchProbe(newTestService(t, m, time.Second)).Probe(context.Background(), "UCalice")
	var pe *live.ProbeError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, live.YouTube, pe.Platform)
	assert.Equal(t, "UCalice", pe.Creator)
	assert.Equal(t, "search", pe.Stage)
	assert.Equal(t, http.StatusForbidden, pe.Status)
	assert.Equal(t, live.ErrorClassFatal, pe.Class())
}

func TestSearchProbeTimeout(t *testing.T) {
	m := testutil.NewMockYouTubeServer(t)
	m.Handle("/youtube/v3/search", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})

	_, err := NewSearchProbe(newTestService(t, m, 50*time.Millisecond)).Probe(context.Background(), "UCalice")
	var pe *live.ProbeError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, live.ErrorClassRetryable, pe.Class())
}

func newUploadsFixture(t *testing.T) *testutil.MockYouTubeServer {
	t.Helper()
	m := testutil.NewMockYouTubeServer(t)
	m.MockChannels(map[string]string{"UCalice": "UUalice", "UCbob": "UUbob", "UCcarol": "UUcarol"})
	m.MockPlaylistItems(map[string]string{"UUalice": "xyz123", "UUbob": "old456"})
	m.MockVideos(map[string]string{"xyz123": "live", "old456": "none"})
	return m
}

func TestUploadsProbe(t *testing.T) {
	m := newUploadsFixture(t)
	p := NewUploadsProbe(newTestService(t, m, time.Second), []string{"UCalice", "UCbob", "UCcarol"})
	ctx := context.Background()

	obs, err := p.Probe(ctx, "UCalice")
	require.NoError(t, err)
	assert.Equal(t, live.LiveAt(live.WatchURL("xyz123")), obs)

	obs, err = p.Probe(ctx, "UCbob")
	require.NoError(t, err)
	assert.False(t, obs.Live, "liveBroadcastContent=none is offline")

	obs, err = p.Probe(ctx, "UCcarol")
	require.NoError(t, err)
	assert.False(t, obs.Live, "empty uploads playlist is offline")

	assert.Equal(t, 1, m.Hits("/youtube/v3/channels"), "all channels resolved in one batched call")
	assert.Equal(t, 3, m.Hits("/youtube/v3/playlistItems"))
	assert.Equal(t, 2, m.Hits("/youtube/v3/videos"))
}

func TestUploadsProbeUnknownChannel(t *testing.T) {
	m := newUploadsFixture(t)
	p := NewUploadsProbe(newTestService(t, m, time.Second), []string{"UCalice", "UCghost"})

	_, err := p.Probe(context.Background(), "UCghost")
	var pe *live.ProbeError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "channels", pe.Stage)
	assert.ErrorIs(t, err, ErrChannelNotFound)

	// Alice was resolved by the same batch and needs no further channels call.
	_, err = p.Probe(context.Background(), "UCalice")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Hits("/youtube/v3/channels"))
}

func TestUploadsProbeMissingSnippet(t *testing.T) {
	m := newUploadsFixture(t)
	m.Handle("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{{"id": "xyz123"}}})
	})
	p := NewUploadsProbe(newTestService(t, m, time.Second), []string{"UCalice"})

	obs, err := p.Probe(context.Background(), "UCalice")
	require.NoError(t, err)
	assert.Equal(t, live.Offline, obs)
}

func TestUploadsProbeStageFailure(t *testing.T) {
	m := newUploadsFixture(t)
	m.MockStatus("/youtube/v3/videos", http.StatusServiceUnavailable, "backendError")
	p := NewUploadsProbe(newTestService(t, m, time.Second), []string{"UCalice"})

	obs, err := p.Probe(context.Background(), "UCalice")
	assert.Equal(t, live.Offline, obs)
	var pe *live.ProbeError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "videos", pe.Stage)
	assert.Equal(t, http.StatusServiceUnavailable, pe.Status)
	assert.Equal(t, live.ErrorClassRetryable, pe.Class())
}

func TestUploadsProbeRetriesResolutionAfterFailure(t *testing.T) {
	m := newUploadsFixture(t)
	m.MockStatus("/youtube/v3/channels", http.StatusInternalServerError, "backendError")
	p := NewUploadsProbe(newTestService(t, m, time.Second), []string{"UCalice"})

	_, err := p.Probe(context.Background(), "UCalice")
	require.Error(t, err)

	m.MockChannels(map[string]string{"UCalice": "UUalice"})
	obs, err := p.Probe(context.Background(), "UCalice")
	require.NoError(t, err)
	assert.True(t, obs.Live)
}
