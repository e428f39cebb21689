package simulator

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Action is one scripted player call.
type Action string

// Scripted actions.
const (
	ActionPlay    Action = "play"
	ActionReady   Action = "ready"
	ActionSeek    Action = "seek"
	ActionPause   Action = "pause"
	ActionResume  Action = "resume"
	ActionEnd     Action = "end"
	ActionDestroy Action = "destroy"
)

// Step is a player call together with the playback position it happens at.
type Step struct {
	Action Action
	At     float64
	From   float64
	To     float64
}

// Script is the sequence of calls one simulated viewer makes.
type Script struct {
	VideoType string
	VideoID   string
	Steps     []Step
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// newVideoID returns an id shaped like the ones found in media URLs.
func newVideoID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// generateScript builds a viewing session: play and ready, a few watched
// segments separated by pauses with occasional seeks, then end or abandon.
func generateScript(liveRatio float64, rnd func() float64) Script {
	s := Script{VideoType: "vod", VideoID: newVideoID("vi")}
	if rnd() < liveRatio {
		s.VideoType, s.VideoID = "live", newVideoID("li")
	}

	pos := 0.0
	s.Steps = append(s.Steps, Step{Action: ActionPlay, At: pos}, Step{Action: ActionReady, At: pos})

	segments := minSegments + int(rnd()*float64(maxExtraSegments+1))
	for i := 0; i < segments; i++ {
		pos += 1 + rnd()*maxSegmentSeconds
		switch r := rnd(); {
		case r < originSeekChance:
			// Seeks from the origin are dropped by the player.
			s.Steps = append(s.Steps, Step{Action: ActionSeek, From: 0, To: pos})
		case r < seekChance:
			to := 1 + rnd()*pos*2
			s.Steps = append(s.Steps, Step{Action: ActionSeek, From: pos, To: to})
			pos = to
		}
		if i < segments-1 {
			s.Steps = append(s.Steps, Step{Action: ActionPause, At: pos}, Step{Action: ActionResume, At: pos})
		}
	}

	if rnd() < abandonChance {
		s.Steps = append(s.Steps, Step{Action: ActionDestroy, At: pos})
	} else {
		s.Steps = append(s.Steps, Step{Action: ActionEnd, At: pos}, Step{Action: ActionDestroy, At: pos})
	}
	return s
}
