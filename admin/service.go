// Package admin coordinates admin reads and mutations with the shared query cache.
package admin

import (
	"context"
	"time"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/api"
	"github.com/viant/learnsphere/cache"
	"github.com/viant/learnsphere/session"
	"github.com/viant/learnsphere/upload"
)

// Staleness windows per query family.
const (
	ListStaleTime    = 10 * time.Second
	StatsStaleTime   = 15 * time.Second
	ReportsStaleTime = 30 * time.Second
)

// Service exposes cached reads and cache coherent writes
type Service struct {
	api      *api.API
	cache    *cache.Cache
	store    *session.Store
	uploader *upload.Uploader
	logger   learnsphere.Logger
	cancel   func()
}

// Cache returns the query cache
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// Store returns the session store
func (s *Service) Store() *session.Store {
	return s.store
}

// API returns the raw resource API
func (s *Service) API() *api.API {
	return s.api
}

// Revoke revokes the server side renewal credential; it is meant for session.WithRevoke.
func (s *Service) Revoke(ctx context.Context) error {
	return s.api.Auth.Logout(ctx)
}

// Close detaches the service from the session store
func (s *Service) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Service) onStoreEvent(event session.Event, _ session.Session) {
	if event == session.EventCleared {
		s.cache.Clear()
	}
}

// New creates a Service; cached data is dropped whenever the session is cleared.
func New(resources *api.API, store *session.Store, options ...Option) *Service {
	ret := &Service{
		api:    resources,
		store:  store,
		logger: learnsphere.DefaultLogger,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.cache == nil {
		ret.cache = cache.New(cache.WithLogger(ret.logger))
	}
	if ret.uploader == nil {
		ret.uploader = upload.New(resources.Uploads, upload.WithLogger(ret.logger))
	}
	ret.cancel = store.Subscribe(ret.onStoreEvent)
	return ret
}
