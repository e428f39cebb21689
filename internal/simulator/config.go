package simulator

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	CollectorURL    string        // Base URL of the collector
	Sessions        int           // Number of simulated playback sessions
	Workers         int           // Number of concurrent players
	Step            time.Duration // Wall-clock pause between script steps
	PingInterval    time.Duration // Reporting interval of each player
	Timeout         time.Duration // HTTP request timeout
	BreakerFailures uint32        // Consecutive failures that open the breaker; 0 disables it
	BreakerCooldown time.Duration // How long an open breaker rejects pings
	LiveRatio       float64       // Share of sessions that watch a live stream
}

// Stats holds simulation statistics.
type Stats struct {
	SessionsStarted   int
	SessionsCompleted int
	SessionsAssigned  int
	PingsSent         int
	PingsFailed       int
	EventsRecorded    int
	CollectorSessions int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// SuccessRate returns the share of lifecycle pings that succeeded, in percent.
func (s Stats) SuccessRate() float64 {
	if s.PingsSent == 0 {
		return 0
	}
	return float64(s.PingsSent-s.PingsFailed) / float64(s.PingsSent) * percentageMultiplier
}
