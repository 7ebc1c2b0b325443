package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jlark1127/watchnwaitbot/chat"
	"github.com/jlark1127/watchnwaitbot/config"
	"github.com/jlark1127/watchnwaitbot/live"
	"github.com/jlark1127/watchnwaitbot/telemetry"
)

const tracerName = "watchnwaitbot/monitor"

// State is the scheduler lifecycle state.
type State int32

// WaitingForSession holds until the chat session reports ready; Running ticks
// on the poll interval; Stopped is terminal.
const (
	WaitingForSession State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case WaitingForSession:
		return "waiting_for_session"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Prober checks whether one creator is live on a platform.
type Prober interface {
	Probe(ctx context.Context, id string) (live.Observation, error)
}

// Notifier delivers a rendered notification message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Watch binds a platform's prober to the creators polled on it.
type Watch struct {
	Platform live.Platform
	Prober   Prober
	Creators []config.Creator
}

// Scheduler drives ticks. Create with New.
type Scheduler struct {
	tracker  *live.Tracker
	notifier Notifier
	watches  []Watch
	interval time.Duration
	clock    clockwork.Clock
	state    atomic.Int32
	logger   *slog.Logger
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// New returns a scheduler in the WaitingForSession state.
func New(tracker *live.Tracker, notifier Notifier, interval time.Duration, watches []Watch, opts ...Option) *Scheduler {
	s := &Scheduler{
		tracker:  tracker,
		notifier: notifier,
		watches:  watches,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default().With(slog.String("component", "scheduler")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current lifecycle state. Safe for concurrent use.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

func (s *Scheduler) setState(st State) {
	s.state.Store(int32(st))
	telemetry.SetSchedulerRunning(st == Running)
}

// Run blocks until ready is closed, then ticks every interval until ctx is
// cancelled. The interval is measured from the end of one tick to the start
// of the next. Run returns nil on cancellation.
func (s *Scheduler) Run(ctx context.Context, ready <-chan struct{}) error {
	defer s.setState(Stopped)

	s.logger.Info("waiting for chat session")
	select {
	case <-ctx.Done():
		return nil
	case <-ready:
	}

	s.setState(Running)
	s.logger.Info("scheduler running", slog.Duration("interval", s.interval))
	for {
		s.Tick(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-s.clock.After(s.interval):
		}
	}
}

// Tick performs one pass over every watch. It never returns an error; every
// failure is logged against the creator it belongs to.
func (s *Scheduler) Tick(ctx context.Context) {
	ctx = telemetry.WithCorrelation(ctx, uuid.NewString())
	ctx, span := telemetry.StartSpan(ctx, tracerName, "monitor.tick")
	defer span.End()

	start := s.clock.Now()
	for _, w := range s.watches {
		for _, c := range w.Creators {
			if ctx.Err() != nil {
				return
			}
			s.check(ctx, w, c)
		}
		telemetry.SetLiveCreators(string(w.Platform), s.tracker.Count(w.Platform))
	}

	if telemetry.TicksTotal != nil {
		telemetry.TicksTotal.Inc()
		telemetry.TickDuration.Observe(s.clock.Since(start).Seconds())
	}
	telemetry.LoggerWithCorr(ctx).Debug("tick complete", slog.Duration("took", s.clock.Since(start)))
	telemetry.SetSpanSuccess(span)
}

func (s *Scheduler) check(ctx context.Context, w Watch, c config.Creator) {
	logger := telemetry.LoggerWithCorr(ctx).With(
		slog.String("component", "scheduler"),
		slog.String("platform", string(w.Platform)),
		slog.String("creator", c.Name),
		slog.String("creator_id", c.ID),
	)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("creator check panicked", slog.Any("panic", r))
		}
	}()

	ctx, span := telemetry.StartSpan(ctx, tracerName, "probe."+string(w.Platform),
		telemetry.PlatformAttr(string(w.Platform)), telemetry.CreatorAttr(c.Name))
	defer span.End()

	var (
		obs live.Observation
		err error
	)
	telemetry.TimeFunc(telemetry.ProbeObserver(string(w.Platform)), func() {
		obs, err = w.Prober.Probe(ctx, c.ID)
	})

	switch {
	case err != nil:
		telemetry.RecordProbe(string(w.Platform), telemetry.ResultError)
		telemetry.RecordError(span, err)
		if live.IsFatal(err) {
			logger.Error("probe failed", slog.String("class", live.ErrorClassFatal.String()), slog.Any("err", err))
		} else {
			logger.Warn("probe failed", slog.String("class", live.ClassifyError(err).String()), slog.Any("err", err))
		}
	case obs.Live:
		telemetry.RecordProbe(string(w.Platform), telemetry.ResultLive)
	default:
		telemetry.RecordProbe(string(w.Platform), telemetry.ResultOffline)
	}

	n, notify := s.tracker.Observe(w.Platform, c.Name, obs, err)
	if !notify {
		return
	}
	logger.Info("creator went live", slog.String("url", n.URL))
	telemetry.RecordNotification(string(w.Platform))

	if err := s.notifier.Notify(ctx, n.Message()); err != nil {
		kind := "unknown"
		var sinkErr *chat.SinkError
		if errors.As(err, &sinkErr) {
			kind = sinkErr.Kind.String()
		}
		telemetry.RecordNotifyFailure(string(w.Platform), kind)
		telemetry.RecordError(span, err)
		return
	}
	telemetry.SetSpanSuccess(span)
}
