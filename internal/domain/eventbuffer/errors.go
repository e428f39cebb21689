package eventbuffer

import "errors"

// ErrInvalidSeek is returned when a seek bound is not strictly positive.
var ErrInvalidSeek = errors.New("invalid seek")
