// Package ping assembles the message reported to the collector.
package ping

import (
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/okian/playpulse/internal/domain/model"
)

// Build creates a ping for descriptor. Live videos carry liveStreamId and
// on-demand videos carry videoId; nothing else depends on the video type.
func Build(
	descriptor model.VideoDescriptor,
	sessionID mo.Option[string],
	loadedAt time.Time,
	events []model.PlaybackEvent,
	metadata []map[string]string,
	now time.Time,
) model.PlaybackPingMessage {
	s := model.Session{
		SessionID: sessionID,
		LoadedAt:  model.NewTimestamp(loadedAt),
		Referrer:  "",
		Metadata:  CloneMetadata(metadata),
	}
	if descriptor.VideoType == model.Live {
		s.LiveStreamID = descriptor.VideoID
	} else {
		s.VideoID = descriptor.VideoID
	}

	if events == nil {
		events = []model.PlaybackEvent{}
	}

	return model.PlaybackPingMessage{
		EmittedAt: model.NewTimestamp(now),
		Session:   s,
		Events:    events,
	}
}

// CloneMetadata deep-copies metadata. The result is never nil so it encodes as [].
func CloneMetadata(metadata []map[string]string) []map[string]string {
	return lo.Map(metadata, func(m map[string]string, _ int) map[string]string {
		return lo.Assign(m)
	})
}
