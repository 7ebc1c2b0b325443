package live

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorClass tells the scheduler how serious a probe failure is.
type ErrorClass int

const (
	// ErrorClassRetryable covers transient failures the next tick will likely clear.
	ErrorClassRetryable ErrorClass = iota
	// ErrorClassFatal covers failures that will repeat until an operator acts
	// (bad credentials, unknown channel, exhausted quota).
	ErrorClassFatal
	// ErrorClassUnknown is returned for a nil error.
	ErrorClassUnknown
)

// String returns a human-readable name for the error class.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorClassRetryable:
		return "retryable"
	case ErrorClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ProbeError reports a failed probe for one creator. Membership must not be
// changed in response to it.
type ProbeError struct {
	Platform Platform
	// Creator is the platform identifier the probe was called with: the
	// YouTube channel id or the Twitch login, never the display name.
	Creator string
	// Stage names the failing call, e.g. "search" or "streams".
	Stage string
	// Status is the upstream HTTP status, or 0 when no response was received.
	Status int
	Err    error
}

func (e *ProbeError) Error() string {
	msg := fmt.Sprintf("%s probe %s for %q", e.Platform, e.Stage, e.Creator)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Class classifies the failure.
func (e *ProbeError) Class() ErrorClass {
	switch {
	case e.Status == 401, e.Status == 403, e.Status == 404:
		return ErrorClassFatal
	case e.Status == 429, e.Status >= 500:
		return ErrorClassRetryable
	}
	return ClassifyError(e.Err)
}

// ClassifyError classifies an arbitrary error returned by a platform client.
//
// Fatal: authentication/authorization failures, quota exhaustion, unknown
// channels. Retryable: timeouts, network faults, rate limiting, 5xx. Anything
// unrecognised is treated as retryable; the poll loop retries every tick anyway.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassUnknown
	}
	var pe *ProbeError
	if errors.As(err, &pe) && pe.Status != 0 {
		return pe.Class()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassRetryable
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorClassRetryable
	}

	lower := strings.ToLower(err.Error())

	fatalPatterns := []string{
		"unauthorized",
		"forbidden",
		"invalid oauth token",
		"api key not valid",
		"quotaexceeded",
		"quota exceeded",
		"channel not found",
	}
	for _, p := range fatalPatterns {
		if strings.Contains(lower, p) {
			return ErrorClassFatal
		}
	}
	return ErrorClassRetryable
}

// IsFatal reports whether err should be surfaced at error level.
func IsFatal(err error) bool {
	return ClassifyError(err) == ErrorClassFatal
}
