package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/session/hint"
)

// Session is the derived client side belief about authentication.
type Session struct {
	IsAuthenticated bool
	User            *learnsphere.User
}

// Event identifies a store transition
type Event int

const (
	// EventCredential is emitted when a credential is set (login or renewal)
	EventCredential Event = iota
	// EventUser is emitted when the current user is set
	EventUser
	// EventCleared is emitted on logout or unrecoverable renewal failure
	EventCleared
)

// Listener observes store transitions
type Listener func(event Event, session Session)

// Store is the single owner of the credential and session.
// Mutations go through SetToken, SetUser, Confirm and Clear only.
type Store struct {
	mux           sync.RWMutex
	token         string
	user          *learnsphere.User
	authenticated bool
	renewing      int
	listeners     map[uint64]Listener
	nextID        uint64
	hints         hint.Store
	hintID        string
	logger        learnsphere.Logger
}

// StoreOption mutates Store
type StoreOption func(s *Store)

// WithHints persists the "was authenticated" flag under hintID.
func WithHints(hints hint.Store, hintID string) StoreOption {
	return func(s *Store) {
		s.hints = hints
		s.hintID = hintID
	}
}

// WithStoreLogger sets logger
func WithStoreLogger(logger learnsphere.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Token returns the held credential
func (s *Store) Token() string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.token
}

// SetToken stores a credential; the session counts as authenticated before the user is known.
func (s *Store) SetToken(token string) {
	s.mux.Lock()
	s.token = token
	s.authenticated = true
	subject := ""
	if s.user != nil {
		subject = s.user.ID
	}
	s.mux.Unlock()
	s.persist(subject)
	s.emit(EventCredential)
}

// User returns a copy of the current user or nil
func (s *Store) User() *learnsphere.User {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return cloneUser(s.user)
}

// SetUser replaces the current user without changing authentication state
func (s *Store) SetUser(user *learnsphere.User) {
	s.mux.Lock()
	s.user = cloneUser(user)
	s.mux.Unlock()
	s.emit(EventUser)
}

// Confirm records a successful "who am I" call: the user is set and the session is authenticated.
func (s *Store) Confirm(user *learnsphere.User) {
	s.mux.Lock()
	s.user = cloneUser(user)
	wasAuthenticated := s.authenticated
	s.authenticated = true
	s.mux.Unlock()
	if !wasAuthenticated && user != nil {
		s.persist(user.ID)
	}
	s.emit(EventUser)
}

// Clear drops the credential and session
func (s *Store) Clear() {
	s.mux.Lock()
	s.token = ""
	s.user = nil
	s.authenticated = false
	s.mux.Unlock()
	if s.hints != nil && s.hintID != "" {
		if err := s.hints.Revoke(context.Background(), s.hintID); err != nil && !errors.Is(err, hint.ErrNotFound) {
			s.logger.Errorf("failed to revoke session hint %v: %v", s.hintID, err)
		}
	}
	s.emit(EventCleared)
}

// IsAuthenticated returns session belief
func (s *Store) IsAuthenticated() bool {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.authenticated
}

// Snapshot returns current session
func (s *Store) Snapshot() Session {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return Session{IsAuthenticated: s.authenticated, User: cloneUser(s.user)}
}

// BeginRenewal flags a renewal in flight until end is called
func (s *Store) BeginRenewal() (end func()) {
	s.mux.Lock()
	s.renewing++
	s.mux.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mux.Lock()
			s.renewing--
			s.mux.Unlock()
		})
	}
}

// Renewing reports whether any renewal is in flight
func (s *Store) Renewing() bool {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.renewing > 0
}

// Subscribe registers listener, the returned func removes it
func (s *Store) Subscribe(listener Listener) (cancel func()) {
	s.mux.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mux.Unlock()
	return func() {
		s.mux.Lock()
		delete(s.listeners, id)
		s.mux.Unlock()
	}
}

// Restore loads the persisted "was authenticated" flag; it never restores a credential.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	if s.hints == nil || s.hintID == "" {
		return false, nil
	}
	h, err := s.hints.Get(ctx, s.hintID)
	if err != nil {
		if errors.Is(err, hint.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !h.Authenticated {
		return false, nil
	}
	s.mux.Lock()
	s.authenticated = true
	s.mux.Unlock()
	if err = s.hints.Touch(ctx, s.hintID, time.Now()); err != nil {
		s.logger.Debugf("failed to touch session hint %v: %v", s.hintID, err)
	}
	return true, nil
}

func (s *Store) persist(subject string) {
	if s.hints == nil || s.hintID == "" {
		return
	}
	h := &hint.Hint{ID: s.hintID, Subject: subject, Authenticated: true}
	if err := s.hints.Put(context.Background(), h); err != nil {
		s.logger.Errorf("failed to persist session hint %v: %v", s.hintID, err)
	}
}

func (s *Store) emit(event Event) {
	s.mux.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	session := Session{IsAuthenticated: s.authenticated, User: cloneUser(s.user)}
	s.mux.RUnlock()
	for _, listener := range listeners {
		listener(event, session)
	}
}

func cloneUser(user *learnsphere.User) *learnsphere.User {
	if user == nil {
		return nil
	}
	dup := *user
	return &dup
}

// NewStore creates an empty, unauthenticated Store
func NewStore(options ...StoreOption) *Store {
	ret := &Store{
		listeners: map[uint64]Listener{},
		logger:    learnsphere.DefaultLogger,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
