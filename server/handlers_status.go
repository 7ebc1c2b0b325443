package server

import (
	"net/http"

	"github.com/jlark1127/watchnwaitbot/live"
)

type statusResponse struct {
	State string              `json:"state"`
	Live  map[string][]string `json:"live"`
}

// HandleStatus returns the scheduler state and who is currently live.
func (h *Handlers) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := h.tracker.Snapshot()
	resp := statusResponse{
		State: h.scheduler.State().String(),
		Live:  make(map[string][]string, len(live.Platforms)),
	}
	for _, p := range live.Platforms {
		names := snap[p]
		if names == nil {
			names = []string{}
		}
		resp.Live[string(p)] = names
	}
	writeJSON(w, http.StatusOK, resp)
}
