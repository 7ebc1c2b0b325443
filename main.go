// Command watchnwaitbot polls YouTube and Twitch for a roster of creators and
// announces in a Discord channel when one of them goes live.
//
// It:
//   - Loads configuration and the creator roster and initializes structured logging.
//   - Opens the Discord bot session and waits for it to become ready.
//   - Runs the poll scheduler, one tick per POLL_INTERVAL.
//   - Exposes a keep-alive HTTP server with /, /healthz, /readyz, /status and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/jlark1127/watchnwaitbot/chat"
	"github.com/jlark1127/watchnwaitbot/config"
	"github.com/jlark1127/watchnwaitbot/live"
	"github.com/jlark1127/watchnwaitbot/monitor"
	"github.com/jlark1127/watchnwaitbot/server"
	"github.com/jlark1127/watchnwaitbot/telemetry"
	"github.com/jlark1127/watchnwaitbot/twitchapi"
	"github.com/jlark1127/watchnwaitbot/youtubeapi"
)

const (
	serviceName    = "watchnwaitbot"
	serviceVersion = "1.0.0"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()), slog.String("format", map[bool]string{true: "json", false: "text"}[format == "json"]))

	if err := run(); err != nil {
		slog.Error("watchnwaitbot exited with error", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	roster, err := config.LoadRoster(cfg.RosterFile)
	if err != nil {
		return err
	}
	slog.Info("roster loaded",
		slog.Int("youtube", len(roster.YouTube)),
		slog.Int("twitch", len(roster.Twitch)),
		slog.String("youtube_strategy", cfg.YouTubeProbeStrategy))

	telemetry.Init()

	// Tracing is optional; requires OTEL_EXPORTER_OTLP_ENDPOINT
	shutdown, err := telemetry.InitTracing(serviceName, serviceVersion)
	if err != nil {
		return err
	}
	defer shutdown()

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ytService, err := youtubeapi.New(ctx, cfg.YouTubeAPIKey, cfg.HTTPTimeout)
	if err != nil {
		return err
	}
	var ytProbe monitor.Prober = youtubeapi.NewSearchProbe(ytService)
	if cfg.YouTubeProbeStrategy == config.StrategyUploads {
		ytProbe = youtubeapi.NewUploadsProbe(ytService, config.IDs(roster.YouTube))
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	twProbe := &twitchapi.StreamProbe{Helix: &twitchapi.HelixClient{
		ClientID:   cfg.TwitchClientID,
		HTTPClient: httpClient,
		AppTokenSource: &twitchapi.TokenSource{
			ClientID:     cfg.TwitchClientID,
			ClientSecret: cfg.TwitchClientSecret,
			StaticToken:  cfg.TwitchOAuthToken,
			HTTPClient:   httpClient,
		},
	}}

	session, err := chat.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	if err := session.Open(); err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("discord session close", slog.Any("err", err))
		}
	}()

	tracker := live.NewTracker()
	sink := chat.NewSink(session, cfg.DiscordChannelString())
	scheduler := monitor.New(tracker, sink, cfg.PollInterval, []monitor.Watch{
		{Platform: live.YouTube, Prober: ytProbe, Creators: roster.YouTube},
		{Platform: live.Twitch, Prober: twProbe, Creators: roster.Twitch},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, cfg.HTTPAddr(), server.NewRouter(server.NewHandlers(scheduler, tracker)))
	})
	g.Go(func() error {
		return scheduler.Run(gctx, session.Ready())
	})

	err = g.Wait()
	slog.Info("shutting down")
	return err
}
