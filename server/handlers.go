package server

import (
	"encoding/json"
	"net/http"

	"github.com/jlark1127/watchnwaitbot/live"
	"github.com/jlark1127/watchnwaitbot/monitor"
)

// StateReporter exposes the scheduler lifecycle.
type StateReporter interface {
	State() monitor.State
}

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	scheduler StateReporter
	tracker   *live.Tracker
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(scheduler StateReporter, tracker *live.Tracker) *Handlers {
	return &Handlers{scheduler: scheduler, tracker: tracker}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
