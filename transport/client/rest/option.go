package rest

import (
	"net/http"
	"time"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/internal/metrics"
	"github.com/viant/learnsphere/transport"
	"github.com/viant/learnsphere/transport/auth"
)

// Option mutates Client.
type Option func(c *Client)

// WithHTTPClient allows custom http.Client.
// The client should carry a cookie jar, the renewal credential travels as a cookie.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout <= 0 {
			return
		}
		c.timeout = timeout
	}
}

// WithStore enables bearer credentials and transparent renewal backed by store.
func WithStore(store auth.CredentialStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithRenewOptions passes options to the credential renewer.
func WithRenewOptions(options ...auth.Option) Option {
	return func(c *Client) {
		c.renewOptions = append(c.renewOptions, options...)
	}
}

// WithLogger sets logger
func WithLogger(logger learnsphere.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithMiddleware adds middlewares running outside of credential handling.
func WithMiddleware(middlewares ...transport.Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}
