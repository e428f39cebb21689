// Package analytics tracks a media player's lifecycle and reports it to a
// playback collector.
//
// A Player records lifecycle events, sends a ping when playback becomes ready,
// pauses or ends, and sends one every interval while playing. All pings of a
// Player share the session id the collector assigns in its first response.
//
//	p, err := analytics.New("https://vod.api.video/vod/vi5oDagRVJBSKHxSiPux5rYD/hls/manifest.m3u8")
//	if err != nil {
//		return err
//	}
//	_ = p.Play(ctx)
//	if err := <-p.Ready(ctx); err != nil {
//		log.Println(err)
//	}
package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/mo"

	"github.com/okian/playpulse/internal/adapters/scheduler"
	"github.com/okian/playpulse/internal/adapters/transport"
	"github.com/okian/playpulse/internal/domain/eventbuffer"
	"github.com/okian/playpulse/internal/domain/mediaurl"
	"github.com/okian/playpulse/internal/domain/model"
	"github.com/okian/playpulse/internal/domain/ping"
	"github.com/okian/playpulse/internal/domain/session"
	"github.com/okian/playpulse/pkg/logger"
	"github.com/okian/playpulse/pkg/metrics"
)

const defaultHTTPTimeout = 5 * time.Second

// Ping triggers, used as metric labels.
const (
	triggerReady    = "ready"
	triggerPause    = "pause"
	triggerEnd      = "end"
	triggerSchedule = "schedule"
)

// Player is the analytics session of one playback.
type Player struct {
	descriptor model.VideoDescriptor
	metadata   []map[string]string

	buffer    *eventbuffer.Buffer
	identity  *session.Identity
	scheduler *scheduler.Scheduler
	sender    Sender

	mu          sync.RWMutex
	currentTime float64

	// Configuration
	clock         clock.Clock
	interval      time.Duration
	httpTimeout   time.Duration
	collectorBase string
	onSessionID   func(string)
	onPing        func(PlaybackPingMessage)

	logger logger.Logger
}

// New resolves mediaURL and creates a Player for it.
// It fails with ErrMalformedInput or ErrUnknownVideoType.
func New(mediaURL string, opts ...Option) (*Player, error) {
	p := newPlayer(opts)
	d, err := mediaurl.Parse(mediaURL, mediaurl.WithCollectorBase(p.collectorBase))
	if err != nil {
		return nil, err
	}
	p.init(d)
	return p, nil
}

// NewWithDescriptor creates a Player for an already resolved video.
// WithCollectorBase has no effect here; the descriptor's PingURL is used.
func NewWithDescriptor(d VideoDescriptor, opts ...Option) *Player {
	p := newPlayer(opts)
	p.init(d)
	return p
}

func newPlayer(opts []Option) *Player {
	p := &Player{
		clock:         clock.New(),
		interval:      scheduler.DefaultInterval,
		httpTimeout:   defaultHTTPTimeout,
		collectorBase: mediaurl.DefaultCollectorBase,
		logger:        logger.GetOrDiscard().Named("analytics"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metadata == nil {
		p.metadata = []map[string]string{}
	}
	return p
}

func (p *Player) init(d model.VideoDescriptor) {
	p.descriptor = d
	p.buffer = eventbuffer.New(eventbuffer.WithClock(p.clock))
	p.identity = session.New(session.WithListener(p.onSessionID))
	if p.sender == nil {
		p.sender = transport.NewHTTPSender(
			transport.WithTimeout(p.httpTimeout),
			transport.WithLogger(p.logger.Named("transport")),
		)
	}
	p.scheduler = scheduler.New(p.scheduledPing,
		scheduler.WithClock(p.clock),
		scheduler.WithInterval(p.interval),
		scheduler.WithLogger(p.logger.Named("scheduler")),
	)
}

// Play records a play event and starts periodic reporting. Reporting runs
// until Pause, End, Destroy or until ctx is done.
func (p *Player) Play(ctx context.Context) error {
	p.buffer.Record(model.KindPlay, p.CurrentTime())
	p.scheduler.Schedule(ctx)
	return nil
}

// Resume records a resume event and (re)starts periodic reporting.
func (p *Player) Resume(ctx context.Context) error {
	p.buffer.Record(model.KindResume, p.CurrentTime())
	p.scheduler.Schedule(ctx)
	return nil
}

// Ready records a ready event and sends a ping. The returned channel yields
// the send result once and is then closed.
func (p *Player) Ready(ctx context.Context) <-chan error {
	p.buffer.Record(model.KindReady, p.CurrentTime())
	return p.sendAsync(ctx, triggerReady)
}

// Pause stops periodic reporting, records a pause event and sends a ping.
func (p *Player) Pause(ctx context.Context) <-chan error {
	p.scheduler.Unschedule()
	p.buffer.Record(model.KindPause, p.CurrentTime())
	return p.sendAsync(ctx, triggerPause)
}

// End stops periodic reporting, records an end event and sends a ping.
func (p *Player) End(ctx context.Context) <-chan error {
	p.scheduler.Unschedule()
	p.buffer.Record(model.KindEnd, p.CurrentTime())
	return p.sendAsync(ctx, triggerEnd)
}

// Seek records a seek from one position to another. Seeks involving a
// position of zero or less are ignored.
func (p *Player) Seek(ctx context.Context, from, to float64) error {
	if err := p.buffer.RecordSeek(from, to); err != nil {
		metrics.RecordSeekIgnored()
		p.logger.Debug(ctx, "seek ignored",
			logger.Float64("from", from),
			logger.Float64("to", to),
			logger.Error(err),
		)
	}
	return nil
}

// Destroy stops periodic reporting. Pings already in flight are not awaited.
func (p *Player) Destroy(ctx context.Context) error {
	p.scheduler.Unschedule()
	p.logger.Debug(ctx, "player destroyed", logger.String("videoId", p.descriptor.VideoID))
	return nil
}

// SetCurrentTime sets the playback position, in seconds, stamped on lifecycle events.
func (p *Player) SetCurrentTime(seconds float64) {
	p.mu.Lock()
	p.currentTime = seconds
	p.mu.Unlock()
}

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentTime
}

// SessionID returns the collector-assigned session id, if known.
func (p *Player) SessionID() mo.Option[string] { return p.identity.Current() }

// Events returns a copy of all recorded events.
func (p *Player) Events() []PlaybackEvent { return p.buffer.Snapshot() }

// Descriptor returns the resolved video.
func (p *Player) Descriptor() VideoDescriptor { return p.descriptor }

// LoadedAt returns when the player was created.
func (p *Player) LoadedAt() time.Time { return p.buffer.LoadedAt() }

// Reporting reports whether periodic pings are scheduled.
func (p *Player) Reporting() bool { return p.scheduler.Active() }

func (p *Player) buildPing() PlaybackPingMessage {
	return ping.Build(
		p.descriptor,
		p.identity.Current(),
		p.buffer.LoadedAt(),
		p.buffer.Snapshot(),
		p.metadata,
		p.clock.Now(),
	)
}

// sendAsync snapshots the ping now and sends it in the background.
func (p *Player) sendAsync(ctx context.Context, trigger string) <-chan error {
	msg := p.buildPing()
	result := make(chan error, 1)
	go func() {
		defer close(result)
		result <- p.send(ctx, msg, trigger)
	}()
	return result
}

func (p *Player) scheduledPing(ctx context.Context) {
	if err := p.send(ctx, p.buildPing(), triggerSchedule); err != nil {
		p.logger.Warn(ctx, "scheduled ping failed",
			logger.String("videoId", p.descriptor.VideoID),
			logger.Error(err),
		)
	}
}

func (p *Player) send(ctx context.Context, msg PlaybackPingMessage, trigger string) error {
	metrics.RecordPingTriggered(trigger)
	if p.onPing != nil {
		p.onPing(msg)
	}

	id, err := p.sender.Send(ctx, p.descriptor.PingURL, msg)
	if err != nil {
		if errors.Is(err, transport.ErrSerialization) {
			p.logger.Error(ctx, "ping could not be encoded",
				logger.String("trigger", trigger),
				logger.Error(err),
			)
		}
		return err
	}

	if sid, ok := id.Get(); ok && p.identity.TryAssign(sid) {
		p.logger.Info(ctx, "session assigned",
			logger.String("sessionId", sid),
			logger.String("videoId", p.descriptor.VideoID),
		)
	}
	return nil
}
