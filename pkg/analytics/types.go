package analytics

import (
	"github.com/okian/playpulse/internal/adapters/transport"
	"github.com/okian/playpulse/internal/domain/model"
)

// Re-exported domain and wire types.
type (
	VideoType           = model.VideoType
	VideoDescriptor     = model.VideoDescriptor
	EventKind           = model.EventKind
	PlaybackEvent       = model.PlaybackEvent
	PlaybackPingMessage = model.PlaybackPingMessage
	Session             = model.Session

	// Sender delivers pings; the default posts JSON over HTTP.
	Sender = transport.Sender
)

// Video types.
const (
	OnDemand = model.OnDemand
	Live     = model.Live
)
