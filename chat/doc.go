// Package chat owns the Discord side of the notifier.
//
// Session wraps a discordgo gateway connection and exposes a Ready channel
// that is closed once the first READY event arrives; the poll scheduler waits
// on it before its first tick. Sink posts rendered notifications to the single
// configured channel, resolving the channel from the session state cache and
// falling back to a REST lookup. Sink failures are returned as *SinkError and
// are never retried.
package chat
