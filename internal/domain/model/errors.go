package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownVideoType = errors.New("unknown video type")
)
