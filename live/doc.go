// Package live holds the live-state model shared by the probes and the poll
// scheduler.
//
// The Tracker turns repeated probe observations into "went live" edges:
// a creator produces one Notification when it first appears live, stays in
// the membership set while subsequent probes keep reporting live, and leaves
// it only when a probe succeeds with an offline result. Probe errors are
// transparent: they neither start nor end a live session, so a transient API
// failure can never cause a duplicate announcement.
package live
