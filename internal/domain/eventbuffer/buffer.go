// Package eventbuffer holds the ordered log of playback events of one session.
package eventbuffer

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/okian/playpulse/internal/domain/model"
	"github.com/okian/playpulse/pkg/metrics"
)

// Buffer is an append-only, insertion-ordered event log. Reading it never
// clears it, so every ping carries the full history of the session.
type Buffer struct {
	mu       sync.Mutex
	events   []model.PlaybackEvent
	clock    clock.Clock
	loadedAt time.Time
}

// New creates an empty buffer. Unless overridden, loadedAt is the clock's now.
func New(opts ...Option) *Buffer {
	b := &Buffer{clock: clock.New()}
	for _, opt := range opts {
		opt(b)
	}
	if b.loadedAt.IsZero() {
		b.loadedAt = b.clock.Now()
	}
	return b
}

// LoadedAt returns the timestamp non-seek events are stamped with.
func (b *Buffer) LoadedAt() time.Time { return b.loadedAt }

// Record appends a non-seek event at position at.
func (b *Buffer) Record(kind model.EventKind, at float64) {
	b.append(model.NewAtEvent(kind, b.loadedAt, at))
}

// RecordSeek appends a seek_forward or seek_backward event. Both bounds must
// be greater than zero, otherwise nothing is recorded.
func (b *Buffer) RecordSeek(from, to float64) error {
	if from <= 0 || to <= 0 {
		return fmt.Errorf("%w: from=%g to=%g", ErrInvalidSeek, from, to)
	}
	b.append(model.NewSeekEvent(b.clock.Now(), from, to))
	return nil
}

func (b *Buffer) append(e model.PlaybackEvent) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()

	metrics.RecordEventRecorded(string(e.Kind))
}

// Snapshot returns a copy of the events in insertion order.
func (b *Buffer) Snapshot() []model.PlaybackEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := slices.Clone(b.events)
	if out == nil {
		out = []model.PlaybackEvent{}
	}
	metrics.UpdateEventBufferSize(len(out))
	return out
}

// Len returns the number of recorded events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
