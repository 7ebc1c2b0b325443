// Package monitor runs the poll loop.
//
// A Scheduler waits for the chat session to become ready, then every poll
// interval walks the roster (YouTube first, then Twitch, creators in
// configuration order), probes each creator, feeds the result to the live
// tracker and hands any went-live notification to the sink. Failures are
// isolated per creator: a probe error, a sink error or a panic in either is
// logged and the tick moves on to the next creator.
package monitor
