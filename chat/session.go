package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// ErrChannelNotFound is returned when a channel id resolves neither from the
// state cache nor from the REST API.
var ErrChannelNotFound = errors.New("channel not found")

// Session is a bot connection to the Discord gateway.
type Session struct {
	dg        *discordgo.Session
	ready     chan struct{}
	readyOnce sync.Once
	logger    *slog.Logger
}

// NewSession prepares a bot session. No connection is made until Open.
func NewSession(token string) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	s := &Session{
		dg:     dg,
		ready:  make(chan struct{}),
		logger: slog.Default().With(slog.String("component", "discord")),
	}
	dg.AddHandler(s.onReady)
	return s, nil
}

// Open connects to the gateway.
func (s *Session) Open() error {
	if err := s.dg.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Close tears the gateway connection down.
func (s *Session) Close() error {
	return s.dg.Close()
}

// Ready is closed after the gateway has sent READY. Reconnects do not reopen it.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

func (s *Session) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	s.readyOnce.Do(func() {
		attrs := []any{slog.Int("guilds", len(r.Guilds))}
		if r.User != nil {
			attrs = append(attrs, slog.String("user", r.User.Username), slog.String("user_id", r.User.ID))
		}
		s.logger.Info("discord session ready", attrs...)
		close(s.ready)
	})
}

// ResolveChannel looks the channel up in the state cache, then over REST.
func (s *Session) ResolveChannel(ctx context.Context, channelID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.dg.State != nil {
		if ch, err := s.dg.State.Channel(channelID); err == nil {
			return ch.Name, nil
		}
	}
	ch, err := s.dg.Channel(channelID)
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil {
			switch restErr.Response.StatusCode {
			case http.StatusNotFound, http.StatusForbidden:
				return "", fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
			}
		}
		return "", fmt.Errorf("lookup channel %s: %w", channelID, err)
	}
	return ch.Name, nil
}

// Send posts content to the channel.
func (s *Session) Send(ctx context.Context, channelID, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.dg.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return nil
}
