// Package scheduler runs an action at a fixed interval until told to stop.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/okian/playpulse/pkg/logger"
	"github.com/okian/playpulse/pkg/metrics"
)

// DefaultInterval is the reporting cadence used when none is configured.
const DefaultInterval = 10 * time.Second

// Action is invoked on every tick, in its own goroutine.
type Action func(ctx context.Context)

// Scheduler owns at most one ticking loop at a time.
type Scheduler struct {
	action   Action
	interval time.Duration
	clock    clock.Clock
	logger   logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an idle scheduler for action.
func New(action Action, opts ...Option) *Scheduler {
	s := &Scheduler{
		action:   action,
		interval: DefaultInterval,
		clock:    clock.New(),
		logger:   logger.GetOrDiscard().Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Schedule stops the running loop, if any, and starts a new one. The first
// tick fires one interval after the call. Actions receive a context that is
// not canceled when the loop stops, so in-flight work is left to finish.
func (s *Scheduler) Schedule(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	// The ticker is registered before the loop starts so a mock clock advanced
	// right after Schedule returns still fires it.
	ticker := s.clock.Ticker(s.interval)
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	metrics.IncSchedulersActive()
	go s.run(loopCtx, ticker, done)
}

// Unschedule stops the loop and waits for it to exit. No tick fires after it
// returns. It is a no-op when nothing is scheduled.
func (s *Scheduler) Unschedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Active reports whether a loop is running.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Scheduler) run(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer func() {
		ticker.Stop()
		metrics.DecSchedulersActive()
		close(done)
	}()

	actionCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			metrics.RecordSchedulerTick()
			s.logger.Debug(ctx, "scheduler tick", logger.Duration("interval", s.interval))
			go s.action(actionCtx)
		}
	}
}
