package live

import (
	"slices"
	"sync"
)

// Tracker owns the per-platform membership of creators currently believed to
// be live. The zero value is not usable; call NewTracker.
type Tracker struct {
	mu      sync.RWMutex
	members map[Platform]map[string]struct{}
}

// NewTracker returns a tracker with empty membership for every platform.
func NewTracker() *Tracker {
	t := &Tracker{members: make(map[Platform]map[string]struct{}, len(Platforms))}
	for _, p := range Platforms {
		t.members[p] = make(map[string]struct{})
	}
	return t
}

// Observe applies one probe result for a creator and reports whether a
// notification must be sent.
//
//	absent  + live    -> add, notify
//	absent  + offline -> nothing
//	present + live    -> nothing
//	present + offline -> remove
//	any     + err     -> nothing
func (t *Tracker) Observe(p Platform, name string, obs Observation, err error) (Notification, bool) {
	if err != nil {
		return Notification{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.members[p]
	if !ok {
		set = make(map[string]struct{})
		t.members[p] = set
	}
	_, present := set[name]

	switch {
	case obs.Live && !present:
		set[name] = struct{}{}
		return Notification{Platform: p, Name: name, URL: obs.URL}, true
	case !obs.Live && present:
		delete(set, name)
	}
	return Notification{}, false
}

// Live reports whether name is currently in the platform's membership.
func (t *Tracker) Live(p Platform, name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.members[p][name]
	return ok
}

// Count returns the number of creators believed live on p.
func (t *Tracker) Count(p Platform) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.members[p])
}

// Snapshot returns a sorted copy of the membership for every platform.
func (t *Tracker) Snapshot() map[Platform][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[Platform][]string, len(t.members))
	for p, set := range t.members {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		slices.Sort(names)
		out[p] = names
	}
	return out
}
