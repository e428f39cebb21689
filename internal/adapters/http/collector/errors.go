package collector

import "errors"

// Sentinel kinds for collector errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidPing  = errors.New("invalid ping")
	ErrTypeMismatch = errors.New("session does not match video type")
)
