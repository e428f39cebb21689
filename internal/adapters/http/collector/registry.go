package collector

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/okian/playpulse/internal/domain/model"
	"github.com/okian/playpulse/pkg/metrics"
)

// SessionStats is what the collector knows about one playback session.
type SessionStats struct {
	SessionID string    `json:"sessionId"`
	VideoType string    `json:"videoType"`
	VideoID   string    `json:"videoId"`
	Pings     int       `json:"pings"`
	Events    int       `json:"events"`
	LastKind  string    `json:"lastEvent,omitempty"`
	FirstSeen time.Time `json:"firstSeen"`
	LastSeen  time.Time `json:"lastSeen"`
}

// Registry tracks sessions by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*SessionStats
	newID    func() string
	now      func() time.Time
}

// NewRegistry creates an empty registry that assigns uuid session ids.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*SessionStats),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe records a ping and returns the session id it belongs to.
// Pings without a session id open a new session.
func (r *Registry) Observe(videoType model.VideoType, videoID string, sessionID *string, events []model.PlaybackEvent) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ""
	if sessionID != nil {
		id = *sessionID
	}
	if id == "" {
		id = r.newID()
	}

	now := r.now()
	st, ok := r.sessions[id]
	if !ok {
		st = &SessionStats{
			SessionID: id,
			VideoType: videoType.Token(),
			VideoID:   videoID,
			FirstSeen: now,
		}
		r.sessions[id] = st
		metrics.UpdateCollectorSessions(len(r.sessions))
	} else if st.VideoType != videoType.Token() || st.VideoID != videoID {
		return "", ErrTypeMismatch
	}

	st.Pings++
	// Pings carry the cumulative buffer, so the latest count is the session total.
	st.Events = len(events)
	if len(events) > 0 {
		st.LastKind = string(events[len(events)-1].Kind)
	}
	st.LastSeen = now
	return id, nil
}

// Get returns a copy of the session's stats.
func (r *Registry) Get(sessionID string) (SessionStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.sessions[sessionID]
	if !ok {
		return SessionStats{}, false
	}
	return *st, true
}

// Len returns the number of known sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns all sessions ordered by first sighting.
func (r *Registry) Snapshot() []SessionStats {
	r.mu.RLock()
	out := lo.MapToSlice(r.sessions, func(_ string, st *SessionStats) SessionStats { return *st })
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstSeen.Equal(out[j].FirstSeen) {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].FirstSeen.Before(out[j].FirstSeen)
	})
	return out
}
