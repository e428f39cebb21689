package transport

import "errors"

// Sentinel kinds for ping delivery.
var (
	ErrTransport       = errors.New("ping transport failed")
	ErrInvalidResponse = errors.New("invalid collector response")
	ErrSerialization   = errors.New("ping serialization failed")
)
