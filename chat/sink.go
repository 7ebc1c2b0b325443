package chat

import (
	"context"
	"fmt"
	"log/slog"
)

// Messenger is the part of a chat session the sink needs.
type Messenger interface {
	ResolveChannel(ctx context.Context, channelID string) (string, error)
	Send(ctx context.Context, channelID, content string) error
}

// ErrorKind distinguishes why a notification was not delivered.
type ErrorKind int

const (
	// DestinationNotFound means the configured channel could not be resolved.
	DestinationNotFound ErrorKind = iota
	// DeliveryFailed means the channel resolved but the send was rejected.
	DeliveryFailed
)

func (k ErrorKind) String() string {
	switch k {
	case DestinationNotFound:
		return "destination_not_found"
	case DeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// SinkError is returned by Notify. It is recoverable; callers log and move on.
type SinkError struct {
	Kind      ErrorKind
	ChannelID string
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("notify channel %s: %s: %v", e.ChannelID, e.Kind, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Sink delivers notification messages to one channel.
type Sink struct {
	messenger Messenger
	channelID string
	logger    *slog.Logger
}

// NewSink returns a sink posting to channelID through m.
func NewSink(m Messenger, channelID string) *Sink {
	return &Sink{
		messenger: m,
		channelID: channelID,
		logger:    slog.Default().With(slog.String("component", "sink")),
	}
}

// Notify posts message once. There is no retry.
func (s *Sink) Notify(ctx context.Context, message string) error {
	name, err := s.messenger.ResolveChannel(ctx, s.channelID)
	if err != nil {
		s.logger.Warn("notification channel not found",
			slog.String("channel_id", s.channelID), slog.Any("err", err))
		return &SinkError{Kind: DestinationNotFound, ChannelID: s.channelID, Err: err}
	}
	if err := s.messenger.Send(ctx, s.channelID, message); err != nil {
		s.logger.Error("failed to send notification",
			slog.String("channel_id", s.channelID), slog.String("channel", name), slog.Any("err", err))
		return &SinkError{Kind: DeliveryFailed, ChannelID: s.channelID, Err: err}
	}
	s.logger.Debug("notification sent", slog.String("channel", name))
	return nil
}
