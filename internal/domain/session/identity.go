// Package session tracks the collector-assigned identifier of a playback session.
package session

import (
	"sync"

	"github.com/samber/mo"

	"github.com/okian/playpulse/pkg/metrics"
)

// Identity holds a session id that is assigned at most once.
// The first non-empty candidate wins; later candidates are ignored.
type Identity struct {
	mu       sync.RWMutex
	id       mo.Option[string]
	listener func(id string)
}

// New creates an unassigned identity.
func New(opts ...Option) *Identity {
	i := &Identity{id: mo.None[string]()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// TryAssign sets the id if none is set and candidate is non-empty.
// It reports whether the assignment happened. The listener runs synchronously
// after the assignment, outside the lock.
func (i *Identity) TryAssign(candidate string) bool {
	if candidate == "" {
		return false
	}

	i.mu.Lock()
	if i.id.IsPresent() {
		i.mu.Unlock()
		return false
	}
	i.id = mo.Some(candidate)
	listener := i.listener
	i.mu.Unlock()

	metrics.RecordSessionAssigned()
	if listener != nil {
		listener(candidate)
	}
	return true
}

// Current returns the assigned id, or None.
func (i *Identity) Current() mo.Option[string] {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.id
}
