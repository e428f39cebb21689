package model

import (
	"fmt"
	"strings"
)

// VideoType is the delivery mode of the watched video.
type VideoType int

// Supported video types.
const (
	OnDemand VideoType = iota
	Live
)

// Token returns the lowercase token used in media URLs and ping URLs.
func (t VideoType) Token() string {
	if t == Live {
		return "live"
	}
	return "vod"
}

func (t VideoType) String() string { return t.Token() }

// ParseVideoType resolves a type token case-insensitively.
func ParseVideoType(token string) (VideoType, error) {
	switch strings.ToLower(token) {
	case "vod":
		return OnDemand, nil
	case "live":
		return Live, nil
	default:
		return 0, fmt.Errorf("%w: %q is neither vod nor live", ErrUnknownVideoType, token)
	}
}

// VideoDescriptor identifies what is being watched and where pings go.
// It is built once and never mutated.
type VideoDescriptor struct {
	PingURL   string
	VideoID   string
	VideoType VideoType
}
