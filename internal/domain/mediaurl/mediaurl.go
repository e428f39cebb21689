// Package mediaurl resolves a media URL into a VideoDescriptor.
//
// Accepted URLs contain "https:/" followed by a path in which a segment names the
// video type (lowercase "vod" or "live", either alone or as the first label of a host such
// as "live.example.com") and a later segment carries the video id:
//
//	https://vod.api.video/vod/vi5oDagRVJBSKHxSiPux5rYD/hls/manifest.m3u8
//	https://live.api.video/li400mYKSgQ6xs7taUeSaEKr.m3u8
//
// The id is the part of its segment before the first '.', and must be followed by
// either a '.' or a further path segment. When several segments could name the
// type, the last one that yields a match wins.
package mediaurl

import (
	"fmt"
	"strings"

	"github.com/okian/playpulse/internal/domain/model"
)

// DefaultCollectorBase is where pings are sent unless overridden.
const DefaultCollectorBase = "https://collector.api.video"

const schemeMarker = "https:/"

var typeTokens = []string{"vod", "live"}

type resolver struct {
	collectorBase string
}

func newResolver(opts []Option) *resolver {
	r := &resolver{collectorBase: DefaultCollectorBase}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Parse resolves mediaURL into a descriptor.
func Parse(mediaURL string, opts ...Option) (model.VideoDescriptor, error) {
	r := newResolver(opts)

	idx := strings.Index(mediaURL, schemeMarker)
	if idx < 0 {
		return model.VideoDescriptor{}, fmt.Errorf("%w: can not parse media url %q", ErrMalformedInput, mediaURL)
	}
	segments := strings.Split(mediaURL[idx+len(schemeMarker):], "/")

	// segments[0] is not preceded by a separator and can never name the type.
	for i := len(segments) - 1; i >= 1; i-- {
		token, id, ok := matchAt(segments, i)
		if !ok {
			continue
		}
		if id == "" {
			return model.VideoDescriptor{}, fmt.Errorf("%w: missing arguments in url %q", ErrMalformedInput, mediaURL)
		}
		return r.descriptor(token, id)
	}
	return model.VideoDescriptor{}, fmt.Errorf("%w: can not parse media url %q", ErrMalformedInput, mediaURL)
}

// NewDescriptor builds a descriptor from an explicit type token and video id.
func NewDescriptor(typeToken, videoID string, opts ...Option) (model.VideoDescriptor, error) {
	if videoID == "" || strings.ContainsAny(videoID, "/.^") {
		return model.VideoDescriptor{}, fmt.Errorf("%w: invalid video id %q", ErrMalformedInput, videoID)
	}
	return newResolver(opts).descriptor(typeToken, videoID)
}

func (r *resolver) descriptor(token, id string) (model.VideoDescriptor, error) {
	videoType, err := model.ParseVideoType(token)
	if err != nil {
		return model.VideoDescriptor{}, err
	}
	return model.VideoDescriptor{
		PingURL:   r.collectorBase + "/" + videoType.Token(),
		VideoID:   id,
		VideoType: videoType,
	}, nil
}

// matchAt tries the type segment at index i. A bare token segment is followed
// either directly by the id segment or by one skipped segment; a "token.host"
// segment is followed by the id segment.
func matchAt(segments []string, i int) (token, id string, ok bool) {
	seg := segments[i]
	for _, t := range typeTokens {
		if !strings.HasPrefix(seg, t) {
			continue
		}
		token = t
		switch {
		case len(seg) == len(t):
			if id, ok = idAt(segments, i+1); ok {
				return token, id, true
			}
			if id, ok = idAt(segments, i+2); ok {
				return token, id, true
			}
		case seg[len(t)] == '.':
			if id, ok = idAt(segments, i+1); ok {
				return token, id, true
			}
		}
	}
	return "", "", false
}

// idAt extracts the id from segments[j]: everything before the first '.' or '^'.
// The id must be followed by a '.' in the same segment or by another segment.
func idAt(segments []string, j int) (string, bool) {
	if j >= len(segments) {
		return "", false
	}
	seg := segments[j]
	end := strings.IndexAny(seg, ".^")
	switch {
	case end < 0:
		return seg, j < len(segments)-1
	case seg[end] == '.':
		return seg[:end], true
	default:
		return "", false
	}
}
