package auth

import (
	"net/http"
	"time"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/internal/metrics"
)

// Option mutates Renewer.
type Option func(r *Renewer)

// WithSkip excludes requests from renewal, e.g. login and refresh calls.
func WithSkip(skip func(request *http.Request) bool) Option {
	return func(r *Renewer) {
		r.skip = skip
	}
}

// WithSkew sets how long before expiry a credential is renewed proactively.
func WithSkew(skew time.Duration) Option {
	return func(r *Renewer) {
		if skew >= 0 {
			r.skew = skew
		}
	}
}

// WithClock overrides time source
func WithClock(clock func() time.Time) Option {
	return func(r *Renewer) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLogger sets logger
func WithLogger(logger learnsphere.Logger) Option {
	return func(r *Renewer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Renewer) {
		r.metrics = m
	}
}

// WithProactive toggles renewing expired JWT credentials before sending.
func WithProactive(enabled bool) Option {
	return func(r *Renewer) {
		r.proactive = enabled
	}
}
