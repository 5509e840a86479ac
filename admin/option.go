package admin

import (
	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/cache"
	"github.com/viant/learnsphere/upload"
)

// Option configures a Service
type Option func(s *Service)

// WithCache sets the query cache
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithUploader sets the uploader
func WithUploader(uploader *upload.Uploader) Option {
	return func(s *Service) {
		s.uploader = uploader
	}
}

// WithLogger sets the logger
func WithLogger(logger learnsphere.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
