package mediaurl

import (
	"errors"

	"github.com/okian/playpulse/internal/domain/model"
)

// Sentinel kinds for media URL resolution.
var (
	ErrMalformedInput   = errors.New("malformed media url")
	ErrUnknownVideoType = model.ErrUnknownVideoType
)
