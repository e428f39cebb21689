package analytics

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/okian/playpulse/internal/domain/ping"
	"github.com/okian/playpulse/pkg/logger"
)

// Option applies a configuration option to the Player.
type Option func(*Player)

// WithMetadata attaches key/value maps sent with every ping. The maps are copied.
func WithMetadata(metadata []map[string]string) Option {
	return func(p *Player) {
		p.metadata = ping.CloneMetadata(metadata)
	}
}

// WithSessionIDListener is called once, with the first session id the collector assigns.
func WithSessionIDListener(fn func(sessionID string)) Option {
	return func(p *Player) {
		p.onSessionID = fn
	}
}

// WithPingListener is called with every ping right before it is sent. Scheduled
// and lifecycle pings may invoke it from different goroutines.
func WithPingListener(fn func(msg PlaybackPingMessage)) Option {
	return func(p *Player) {
		p.onPing = fn
	}
}

// WithLogger sets a custom logger for the player.
func WithLogger(l logger.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock sets the clock used for timestamps and the reporting interval.
func WithClock(c clock.Clock) Option {
	return func(p *Player) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithSender replaces the HTTP sender.
func WithSender(s Sender) Option {
	return func(p *Player) {
		if s != nil {
			p.sender = s
		}
	}
}

// WithCollectorBase sets the collector base URL pings are posted under.
func WithCollectorBase(base string) Option {
	return func(p *Player) {
		if base != "" {
			p.collectorBase = base
		}
	}
}

// WithPingInterval sets how often pings are sent while playing.
func WithPingInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithHTTPTimeout sets the request timeout of the default sender.
func WithHTTPTimeout(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.httpTimeout = d
		}
	}
}
