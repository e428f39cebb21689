// Package simulator drives many simulated viewers against a collector.
package simulator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/okian/playpulse/internal/adapters/transport"
	"github.com/okian/playpulse/internal/domain/mediaurl"
	"github.com/okian/playpulse/pkg/analytics"
	"github.com/okian/playpulse/pkg/logger"
)

// tally aggregates counters across workers.
type tally struct {
	started   atomic.Int64
	completed atomic.Int64
	assigned  atomic.Int64
	pings     atomic.Int64
	failed    atomic.Int64
	events    atomic.Int64
}

// Runner executes simulations.
type Runner struct {
	cfg    Config
	client *http.Client
	sender analytics.Sender
	rnd    func() float64
	logger logger.Logger
}

// NewRunner validates cfg and prepares a runner.
func NewRunner(cfg Config) (*Runner, error) {
	if strings.TrimSpace(cfg.CollectorURL) == "" {
		return nil, fmt.Errorf("%w: collector url is required", ErrInvalidConfig)
	}
	if cfg.Sessions < 1 {
		return nil, fmt.Errorf("%w: sessions must be positive", ErrInvalidConfig)
	}
	if cfg.LiveRatio < 0 || cfg.LiveRatio > 1 {
		return nil, fmt.Errorf("%w: live ratio must be within [0,1]", ErrInvalidConfig)
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkers
	}
	cfg.CollectorURL = strings.TrimRight(cfg.CollectorURL, "/")

	log := logger.GetOrDiscard().Named("simulator")
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = healthCheckTimeout

	return &Runner{
		cfg:    cfg,
		client: client,
		sender: transport.NewHTTPSender(
			transport.WithTimeout(cfg.Timeout),
			transport.WithBreaker(cfg.BreakerFailures, cfg.BreakerCooldown),
			transport.WithLogger(log.Named("transport")),
		),
		rnd:    getRandomFloat,
		logger: log,
	}, nil
}

// Run checks the collector, plays every session and verifies the collector
// saw the sessions it assigned.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	stats := Stats{StartTime: time.Now()}

	r.logger.Info(ctx, "starting playback simulation",
		logger.String("collectorURL", r.cfg.CollectorURL),
		logger.Int("sessions", r.cfg.Sessions),
		logger.Int("workers", r.cfg.Workers),
		logger.Duration("step", r.cfg.Step),
		logger.Duration("pingInterval", r.cfg.PingInterval),
		logger.Float64("liveRatio", r.cfg.LiveRatio),
	)

	if err := r.checkHealth(ctx); err != nil {
		return stats, err
	}

	t := &tally{}
	r.playAll(ctx, t)

	stats.SessionsStarted = int(t.started.Load())
	stats.SessionsCompleted = int(t.completed.Load())
	stats.SessionsAssigned = int(t.assigned.Load())
	stats.PingsSent = int(t.pings.Load())
	stats.PingsFailed = int(t.failed.Load())
	stats.EventsRecorded = int(t.events.Load())

	count, err := r.collectorSessions(ctx)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	if err != nil {
		return stats, err
	}
	stats.CollectorSessions = count

	r.displayFinalStats(ctx, stats)

	if count < stats.SessionsAssigned {
		return stats, fmt.Errorf("%w: collector knows %d sessions, players learned %d", ErrVerification, count, stats.SessionsAssigned)
	}
	if ctx.Err() != nil {
		return stats, fmt.Errorf("simulation interrupted: %w", ctx.Err())
	}
	return stats, nil
}

// playAll feeds scripts to a fixed pool of workers.
func (r *Runner) playAll(ctx context.Context, t *tally) {
	scripts := make(chan Script, r.cfg.Workers*workerChannelFactor)
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range scripts {
				if ctx.Err() != nil {
					continue
				}
				r.play(ctx, s, t)
			}
		}()
	}

	for i := 0; i < r.cfg.Sessions && ctx.Err() == nil; i++ {
		scripts <- generateScript(r.cfg.LiveRatio, r.rnd)
	}
	close(scripts)
	wg.Wait()
}

// play runs one script against a fresh player.
func (r *Runner) play(ctx context.Context, s Script, t *tally) {
	d, err := mediaurl.NewDescriptor(s.VideoType, s.VideoID, mediaurl.WithCollectorBase(r.cfg.CollectorURL))
	if err != nil {
		r.logger.Error(ctx, "invalid simulated video", logger.String("videoId", s.VideoID), logger.Error(err))
		return
	}

	p := analytics.NewWithDescriptor(d,
		analytics.WithSender(r.sender),
		analytics.WithPingInterval(r.cfg.PingInterval),
		analytics.WithLogger(r.logger),
		analytics.WithMetadata([]map[string]string{{"simulated": "true"}}),
		analytics.WithSessionIDListener(func(string) { t.assigned.Add(1) }),
	)
	t.started.Add(1)
	defer func() {
		_ = p.Destroy(ctx)
		t.events.Add(int64(len(p.Events())))
	}()

	await := func(ch <-chan error) {
		t.pings.Add(1)
		if err := <-ch; err != nil {
			t.failed.Add(1)
			r.logger.Debug(ctx, "ping failed", logger.String("videoId", s.VideoID), logger.Error(err))
		}
	}

	for i, step := range s.Steps {
		if i > 0 && !r.pause(ctx) {
			return
		}
		p.SetCurrentTime(step.At)
		switch step.Action {
		case ActionPlay:
			_ = p.Play(ctx)
		case ActionResume:
			_ = p.Resume(ctx)
		case ActionReady:
			await(p.Ready(ctx))
		case ActionPause:
			await(p.Pause(ctx))
		case ActionEnd:
			await(p.End(ctx))
			t.completed.Add(1)
		case ActionSeek:
			_ = p.Seek(ctx, step.From, step.To)
		case ActionDestroy:
			_ = p.Destroy(ctx)
		}
	}
}

// pause waits one step, reporting false if ctx ended first.
func (r *Runner) pause(ctx context.Context) bool {
	if r.cfg.Step <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(r.cfg.Step):
		return true
	}
}

// checkHealth verifies the collector is running.
func (r *Runner) checkHealth(ctx context.Context) error {
	body, status, err := r.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != statusOK {
		return fmt.Errorf("%w: status %d: %s", ErrUnhealthy, status, body)
	}
	r.logger.Info(ctx, "collector is healthy")
	return nil
}

// collectorSessions reads the number of sessions the collector knows.
func (r *Runner) collectorSessions(ctx context.Context) (int, error) {
	body, status, err := r.get(context.WithoutCancel(ctx), "/sessions")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	count := gjson.GetBytes(body, "count")
	if status != statusOK || !count.Exists() {
		return 0, fmt.Errorf("%w: unexpected /sessions response (status %d)", ErrVerification, status)
	}
	return int(count.Int()), nil
}

func (r *Runner) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.CollectorURL+path, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reach collector: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			r.logger.Error(ctx, "failed to close response body", logger.Error(err))
		}
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// displayFinalStats logs the final statistics.
func (r *Runner) displayFinalStats(ctx context.Context, stats Stats) {
	var sessionsPerSecond float64
	if stats.Duration > 0 {
		sessionsPerSecond = float64(stats.SessionsStarted) / stats.Duration.Seconds()
	}

	r.logger.Info(ctx, "final statistics",
		logger.Int("sessionsStarted", stats.SessionsStarted),
		logger.Int("sessionsCompleted", stats.SessionsCompleted),
		logger.Int("sessionsAssigned", stats.SessionsAssigned),
		logger.Int("collectorSessions", stats.CollectorSessions),
		logger.Int("pingsSent", stats.PingsSent),
		logger.Int("pingsFailed", stats.PingsFailed),
		logger.Int("eventsRecorded", stats.EventsRecorded),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", stats.SuccessRate()),
		logger.Float64("sessionsPerSecond", sessionsPerSecond),
	)
}
