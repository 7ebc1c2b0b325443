// Package config loads environment variables and the creator roster into the
// typed values used across the service. Missing or malformed required values
// are reported as *ConfigError and must stop startup.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-simpler.org/env"
)

// Probe strategies for the YouTube probe.
const (
	StrategySearch  = "search"
	StrategyUploads = "uploads"
)

// ErrMissing is wrapped by ConfigError when a required variable is unset.
var ErrMissing = errors.New("required but not set")

// ConfigError reports an unusable configuration value.
type ConfigError struct {
	Var string
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config %s: %v", e.Var, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

type Config struct {
	// YouTube
	YouTubeAPIKey        string `env:"YOUTUBE_API_KEY,required"`
	YouTubeProbeStrategy string `env:"YOUTUBE_PROBE_STRATEGY" default:"search"`

	// Twitch
	TwitchClientID     string `env:"TWITCH_CLIENT_ID,required"`
	TwitchOAuthToken   string `env:"TWITCH_OAUTH_TOKEN"`
	TwitchClientSecret string `env:"TWITCH_CLIENT_SECRET"`

	// Discord
	DiscordToken     string `env:"DISCORD_TOKEN,required"`
	DiscordChannel   string `env:"DISCORD_CHANNEL_ID,required"`
	DiscordChannelID uint64

	// Polling
	PollInterval time.Duration `env:"POLL_INTERVAL" default:"60s"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" default:"10s"`
	RosterFile   string        `env:"ROSTER_FILE"`

	// HTTP keep-alive server; PORT is what hosting platforms inject.
	Port string `env:"PORT" default:"8080"`
}

// Load reads the process environment and validates the result. A .env file
// is merged into the environment by main before Load runs.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Load(cfg, nil); err != nil {
		var notSet *env.NotSetError
		if errors.As(err, &notSet) {
			return nil, &ConfigError{Var: strings.Join(notSet.Names, ", "), Err: ErrMissing}
		}
		return nil, &ConfigError{Var: "environment", Err: err}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := []struct{ name, value string }{
		{"YOUTUBE_API_KEY", c.YouTubeAPIKey},
		{"TWITCH_CLIENT_ID", c.TwitchClientID},
		{"DISCORD_TOKEN", c.DiscordToken},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ConfigError{Var: r.name, Err: ErrMissing}
		}
	}

	id, err := strconv.ParseUint(strings.TrimSpace(c.DiscordChannel), 10, 64)
	if err != nil || id == 0 {
		if err == nil {
			err = errors.New("must be non-zero")
		}
		return &ConfigError{Var: "DISCORD_CHANNEL_ID", Err: fmt.Errorf("invalid channel id %q: %w", c.DiscordChannel, err)}
	}
	c.DiscordChannelID = id

	if c.TwitchOAuthToken == "" && c.TwitchClientSecret == "" {
		return &ConfigError{Var: "TWITCH_OAUTH_TOKEN", Err: fmt.Errorf("%w (or set TWITCH_CLIENT_SECRET)", ErrMissing)}
	}

	c.YouTubeProbeStrategy = strings.ToLower(strings.TrimSpace(c.YouTubeProbeStrategy))
	switch c.YouTubeProbeStrategy {
	case StrategySearch, StrategyUploads:
	default:
		return &ConfigError{Var: "YOUTUBE_PROBE_STRATEGY", Err: fmt.Errorf("unknown strategy %q (want %s or %s)", c.YouTubeProbeStrategy, StrategySearch, StrategyUploads)}
	}

	if c.PollInterval <= 0 {
		return &ConfigError{Var: "POLL_INTERVAL", Err: fmt.Errorf("must be positive, got %s", c.PollInterval)}
	}
	if c.HTTPTimeout <= 0 {
		return &ConfigError{Var: "HTTP_TIMEOUT", Err: fmt.Errorf("must be positive, got %s", c.HTTPTimeout)}
	}
	return nil
}

// DiscordChannelString returns the destination channel id in the form the
// Discord API expects.
func (c *Config) DiscordChannelString() string {
	return strconv.FormatUint(c.DiscordChannelID, 10)
}

// HTTPAddr returns the listen address for the keep-alive server.
func (c *Config) HTTPAddr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
