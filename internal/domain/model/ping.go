package model

import (
	"github.com/samber/mo"
)

// Session is the wire session object. Exactly one of VideoID (on-demand) and
// LiveStreamID (live) is set.
type Session struct {
	SessionID    mo.Option[string]   `json:"sessionId"`
	VideoID      string              `json:"videoId,omitempty"`
	LiveStreamID string              `json:"liveStreamId,omitempty"`
	LoadedAt     Timestamp           `json:"loadedAt"`
	Referrer     string              `json:"referrer"`
	Metadata     []map[string]string `json:"metadata"`
}

// PlaybackPingMessage is the body POSTed to the collector.
type PlaybackPingMessage struct {
	EmittedAt Timestamp       `json:"emittedAt"`
	Session   Session         `json:"session"`
	Events    []PlaybackEvent `json:"events"`
}
