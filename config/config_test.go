package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("TWITCH_CLIENT_ID", "client-id")
	t.Setenv("TWITCH_OAUTH_TOKEN", "token")
	t.Setenv("TWITCH_CLIENT_SECRET", "")
	t.Setenv("DISCORD_TOKEN", "discord-token")
	t.Setenv("DISCORD_CHANNEL_ID", "123456789012345678")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("YOUTUBE_PROBE_STRATEGY", "")
	t.Setenv("PORT", "")
	for _, k := range []string{"POLL_INTERVAL", "HTTP_TIMEOUT", "YOUTUBE_PROBE_STRATEGY", "PORT"} {
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint64(123456789012345678), cfg.DiscordChannelID)
	assert.Equal(t, "123456789012345678", cfg.DiscordChannelString())
	assert.Equal(t, 60*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, StrategySearch, cfg.YouTubeProbeStrategy)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL", "2m")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("YOUTUBE_PROBE_STRATEGY", "Uploads")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, StrategyUploads, cfg.YouTubeProbeStrategy)
	assert.Equal(t, ":9000", cfg.HTTPAddr())
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	require.NoError(t, os.Unsetenv("DISCORD_TOKEN"))

	_, err := Load()
	var ce *ConfigError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Contains(t, ce.Var, "DISCORD_TOKEN")
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLoadIgnoresDotEnvFile(t *testing.T) {
	setRequired(t)
	require.NoError(t, os.Unsetenv("DISCORD_TOKEN"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISCORD_TOKEN=from-file\n"), 0o600))
	t.Chdir(dir)

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissing)
	_, set := os.LookupEnv("DISCORD_TOKEN")
	assert.False(t, set)
}

func TestLoadEmptyRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("YOUTUBE_API_KEY", "  ")

	_, err := Load()
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "YOUTUBE_API_KEY", ce.Var)
}

func TestLoadMalformedChannelID(t *testing.T) {
	for _, v := range []string{"general", "-5", "0", "12.5"} {
		t.Run(v, func(t *testing.T) {
			setRequired(t)
			t.Setenv("DISCORD_CHANNEL_ID", v)

			_, err := Load()
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, "DISCORD_CHANNEL_ID", ce.Var)
		})
	}
}

func TestLoadTwitchCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("TWITCH_OAUTH_TOKEN", "")

	_, err := Load()
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "TWITCH_OAUTH_TOKEN", ce.Var)

	t.Setenv("TWITCH_CLIENT_SECRET", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.TwitchClientSecret)
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	setRequired(t)
	t.Setenv("YOUTUBE_PROBE_STRATEGY", "scrape")

	_, err := Load()
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "YOUTUBE_PROBE_STRATEGY", ce.Var)
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL", "0s")

	_, err := Load()
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "POLL_INTERVAL", ce.Var)
}
