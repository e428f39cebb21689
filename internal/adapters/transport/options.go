package transport

import (
	"net/http"
	"time"

	"github.com/okian/playpulse/pkg/logger"
)

// Option applies a configuration option to the HTTPSender.
type Option func(*HTTPSender)

// WithTimeout sets the per-request timeout of the default client.
// It has no effect when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSender) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSender) {
		if c != nil {
			s.client = c
		}
	}
}

// WithBreaker enables a circuit breaker that opens after threshold consecutive
// failures and stays open for cooldown. A threshold below one disables it.
func WithBreaker(threshold uint32, cooldown time.Duration) Option {
	return func(s *HTTPSender) {
		s.breakerThreshold = threshold
		if cooldown > 0 {
			s.breakerCooldown = cooldown
		}
	}
}

// WithLogger sets a custom logger for the sender.
func WithLogger(l logger.Logger) Option {
	return func(s *HTTPSender) {
		if l != nil {
			s.logger = l
		}
	}
}
