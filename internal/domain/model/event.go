// Package model contains the playback analytics domain and wire types shared
// between the event buffer, the ping builder, the transport and the collector.
package model

import (
	"time"
)

// EventKind names a player lifecycle event. The value is the wire "type".
type EventKind string

// Playback event kinds.
const (
	KindPlay         EventKind = "play"
	KindResume       EventKind = "resume"
	KindReady        EventKind = "ready"
	KindPause        EventKind = "pause"
	KindEnd          EventKind = "end"
	KindSeekForward  EventKind = "seek_forward"
	KindSeekBackward EventKind = "seek_backward"
)

// IsSeek reports whether the kind carries from/to positions instead of at.
func (k EventKind) IsSeek() bool {
	return k == KindSeekForward || k == KindSeekBackward
}

// Valid reports whether k is one of the known kinds.
func (k EventKind) Valid() bool {
	switch k {
	case KindPlay, KindResume, KindReady, KindPause, KindEnd, KindSeekForward, KindSeekBackward:
		return true
	}
	return false
}

// PlaybackEvent is a single recorded player event.
// Exactly one of At or From/To is set, depending on Kind.
type PlaybackEvent struct {
	EmittedAt Timestamp `json:"emittedAt"`
	Kind      EventKind `json:"type"`
	At        *float64  `json:"at,omitempty"`
	From      *float64  `json:"from,omitempty"`
	To        *float64  `json:"to,omitempty"`
}

// NewAtEvent creates a non-seek event positioned at at.
func NewAtEvent(kind EventKind, emittedAt time.Time, at float64) PlaybackEvent {
	return PlaybackEvent{EmittedAt: NewTimestamp(emittedAt), Kind: kind, At: &at}
}

// NewSeekEvent creates a seek event. The direction is derived from the bounds:
// forward when from < to, backward otherwise.
func NewSeekEvent(emittedAt time.Time, from, to float64) PlaybackEvent {
	kind := KindSeekBackward
	if from < to {
		kind = KindSeekForward
	}
	return PlaybackEvent{EmittedAt: NewTimestamp(emittedAt), Kind: kind, From: &from, To: &to}
}
