package eventbuffer

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Option applies a configuration option to the Buffer.
type Option func(*Buffer)

// WithClock sets the clock used to stamp seek events.
func WithClock(c clock.Clock) Option {
	return func(b *Buffer) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithLoadedAt overrides the construction timestamp stamped on non-seek events.
func WithLoadedAt(t time.Time) Option {
	return func(b *Buffer) {
		if !t.IsZero() {
			b.loadedAt = t
		}
	}
}
