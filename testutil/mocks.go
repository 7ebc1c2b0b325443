// Package testutil provides mock upstream APIs for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockServer routes requests by path suffix so it can stand in for APIs whose
// base path differs between clients.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	hits     map[string]int
}

func newMockServer(t *testing.T) *MockServer {
	t.Helper()
	m := &MockServer{
		handlers: make(map[string]http.HandlerFunc),
		hits:     make(map[string]int),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		var handler http.HandlerFunc
		for suffix, h := range m.handlers {
			if strings.HasSuffix(r.URL.Path, suffix) {
				handler = h
				m.hits[suffix]++
				break
			}
		}
		m.mu.Unlock()
		if handler == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// Handle registers handler for request paths ending in suffix.
func (m *MockServer) Handle(suffix string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[suffix] = handler
}

// Hits returns how many requests were routed to suffix.
func (m *MockServer) Hits(suffix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[suffix]
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // test mock response
}

// MockTwitchServer mocks the Twitch Helix and id.twitch.tv endpoints.
type MockTwitchServer struct {
	*MockServer
}

// NewMockTwitchServer creates a new mock Twitch API server.
func NewMockTwitchServer(t *testing.T) *MockTwitchServer {
	t.Helper()
	return &MockTwitchServer{MockServer: newMockServer(t)}
}

// MockStreamsResponse answers /streams with a live stream for every login in
// live and an empty list for anyone else.
func (m *MockTwitchServer) MockStreamsResponse(live ...string) {
	set := make(map[string]bool, len(live))
	for _, l := range live {
		set[strings.ToLower(l)] = true
	}
	m.Handle("/streams", func(w http.ResponseWriter, r *http.Request) {
		data := []map[string]any{}
		for _, login := range r.URL.Query()["user_login"] {
			if set[strings.ToLower(login)] {
				data = append(data, map[string]any{
					"id":           "stream-" + login,
					"user_login":   strings.ToLower(login),
					"user_name":    login,
					"type":         "live",
					"title":        "Live Now",
					"started_at":   "2024-10-15T14:30:00Z",
					"viewer_count": 42,
				})
			}
		}
		WriteJSON(w, http.StatusOK, map[string]any{"data": data, "pagination": map[string]any{}})
	})
}

// MockStreamsStatus answers /streams with the given error status.
func (m *MockTwitchServer) MockStreamsStatus(status int, message string) {
	m.Handle("/streams", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, map[string]any{"error": http.StatusText(status), "status": status, "message": message})
	})
}

// MockOAuthTokenResponse adds a handler for the OAuth token endpoint.
func (m *MockTwitchServer) MockOAuthTokenResponse(accessToken string, expiresIn int) {
	m.Handle("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"access_token": accessToken,
			"expires_in":   expiresIn,
			"token_type":   "bearer",
		})
	})
}

// MockYouTubeServer mocks the YouTube Data API v3 endpoints used by the probes.
type MockYouTubeServer struct {
	*MockServer
}

// NewMockYouTubeServer creates a new mock YouTube Data API server.
func NewMockYouTubeServer(t *testing.T) *MockYouTubeServer {
	t.Helper()
	return &MockYouTubeServer{MockServer: newMockServer(t)}
}

// MockSearch answers search.list with a live video for the channels in live
// (channel id -> video id) and no items for anyone else.
func (m *MockYouTubeServer) MockSearch(live map[string]string) {
	m.Handle("/youtube/v3/search", func(w http.ResponseWriter, r *http.Request) {
		items := []map[string]any{}
		if vid, ok := live[r.URL.Query().Get("channelId")]; ok {
			items = append(items, map[string]any{
				"kind": "youtube#searchResult",
				"id":   map[string]any{"kind": "youtube#video", "videoId": vid},
			})
		}
		WriteJSON(w, http.StatusOK, map[string]any{"kind": "youtube#searchListResponse", "items": items})
	})
}

// MockChannels answers channels.list from a channel id -> uploads playlist map.
func (m *MockYouTubeServer) MockChannels(uploads map[string]string) {
	m.Handle("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		items := []map[string]any{}
		for _, raw := range r.URL.Query()["id"] {
			for _, id := range strings.Split(raw, ",") {
				if pl, ok := uploads[id]; ok {
					items = append(items, map[string]any{
						"id": id,
						"contentDetails": map[string]any{
							"relatedPlaylists": map[string]any{"uploads": pl},
						},
					})
				}
			}
		}
		WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	})
}

// MockPlaylistItems answers playlistItems.list from a playlist -> newest video map.
func (m *MockYouTubeServer) MockPlaylistItems(latest map[string]string) {
	m.Handle("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		items := []map[string]any{}
		if vid, ok := latest[r.URL.Query().Get("playlistId")]; ok {
			items = append(items, map[string]any{"contentDetails": map[string]any{"videoId": vid}})
		}
		WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	})
}

// MockVideos answers videos.list from a video id -> liveBroadcastContent map.
func (m *MockYouTubeServer) MockVideos(state map[string]string) {
	m.Handle("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		items := []map[string]any{}
		for _, raw := range r.URL.Query()["id"] {
			for _, id := range strings.Split(raw, ",") {
				if s, ok := state[id]; ok {
					items = append(items, map[string]any{
						"id":      id,
						"snippet": map[string]any{"liveBroadcastContent": s},
					})
				}
			}
		}
		WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	})
}

// MockStatus makes every request to suffix fail with status and a Google
// style error body.
func (m *MockYouTubeServer) MockStatus(suffix string, status int, reason string) {
	m.Handle(suffix, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    status,
				"message": reason,
				"errors":  []map[string]any{{"reason": reason, "message": reason}},
			},
		})
	})
}
