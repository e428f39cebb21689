package mediaurl

import "strings"

// Option configures descriptor resolution.
type Option func(*resolver)

// WithCollectorBase overrides the collector base the ping URL is derived from.
func WithCollectorBase(base string) Option {
	return func(r *resolver) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			r.collectorBase = base
		}
	}
}
