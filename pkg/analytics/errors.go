package analytics

import (
	"github.com/okian/playpulse/internal/adapters/transport"
	"github.com/okian/playpulse/internal/domain/mediaurl"
)

// Errors returned by New and delivered on ping result channels.
var (
	ErrMalformedInput   = mediaurl.ErrMalformedInput
	ErrUnknownVideoType = mediaurl.ErrUnknownVideoType
	ErrTransport        = transport.ErrTransport
	ErrInvalidResponse  = transport.ErrInvalidResponse
	ErrSerialization    = transport.ErrSerialization
)
