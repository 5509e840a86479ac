package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/internal/metrics"
	"github.com/viant/learnsphere/transport"
	"golang.org/x/sync/singleflight"
)

// RefreshFunc mints a new access credential from the renewal cookie.
// It must not be routed through the Renewer itself.
type RefreshFunc func(ctx context.Context) (string, error)

const renewKey = "renew"

type emptyCredentialError struct{}

func (e *emptyCredentialError) Error() string { return "renewal returned empty credential" }

// Renewer recovers from expired credentials: on a 401 it renews once and replays the request once.
// Concurrent renewals share a single refresh call.
type Renewer struct {
	store     CredentialStore
	refresh   RefreshFunc
	group     singleflight.Group
	skip      func(request *http.Request) bool
	skew      time.Duration
	clock     func() time.Time
	proactive bool
	logger    learnsphere.Logger
	metrics   *metrics.Metrics

	mux    sync.Mutex
	parsed *Credential
}

// Middleware returns the renewal middleware; it must wrap Bearer.
func (r *Renewer) Middleware() transport.Middleware {
	intercept := transport.Intercept(r)
	return func(next transport.Doer) transport.Doer {
		intercepted := intercept(next)
		return transport.DoerFunc(func(request *http.Request) (*http.Response, error) {
			ctx := request.Context()
			if r.proactive && !r.skipped(request) && !Retried(ctx) && r.expired() {
				sent := r.store.Token()
				if token, err := r.renew(ctx, sent); err != nil {
					r.logger.Debugf("proactive renewal failed: %v", err)
					if !errors.Is(err, learnsphere.ErrSessionExpired) {
						return nil, err
					}
					ctx = withRetried(WithSentToken(ctx, ""))
				} else {
					ctx = withRetried(WithSentToken(ctx, token))
				}
				return intercepted.Do(request.WithContext(ctx))
			}
			if _, ok := SentToken(ctx); !ok {
				ctx = WithSentToken(ctx, r.store.Token())
			}
			return intercepted.Do(request.WithContext(ctx))
		})
	}
}

// Intercept implements transport.Interceptor
func (r *Renewer) Intercept(request *http.Request, response *http.Response) (*http.Request, error) {
	if response.StatusCode != http.StatusUnauthorized {
		return nil, nil
	}
	ctx := request.Context()
	if Retried(ctx) || r.skipped(request) {
		return nil, nil
	}
	sent, _ := SentToken(ctx)
	token, err := r.renew(ctx, sent)
	if err != nil {
		r.logger.Infof("credential renewal failed for %v %v: %v", request.Method, request.URL.Path, err)
		if errors.Is(err, learnsphere.ErrSessionExpired) {
			return nil, nil
		}
		// transient, the session is kept and the caller gets the failure instead of the 401
		return nil, err
	}
	return replay(request, token)
}

// Renew forces a deduplicated renewal, e.g. when bootstrapping with no credential held.
func (r *Renewer) Renew(ctx context.Context) (string, error) {
	return r.renew(ctx, r.store.Token())
}

func (r *Renewer) renew(ctx context.Context, sent string) (string, error) {
	if current := r.store.Token(); current != "" && current != sent {
		return current, nil
	}
	ch := r.group.DoChan(renewKey, func() (interface{}, error) {
		if current := r.store.Token(); current != "" && current != sent {
			return current, nil
		}
		end := r.store.BeginRenewal()
		defer end()
		token, err := r.refresh(context.WithoutCancel(ctx))
		if err == nil && token == "" {
			err = &emptyCredentialError{}
		}
		if err != nil && !rejected(err) {
			r.metrics.ObserveRenewal("error")
			return "", err
		}
		if err != nil {
			r.metrics.ObserveRenewal("failure")
			r.store.Clear()
			return "", errors.Join(learnsphere.ErrSessionExpired, err)
		}
		r.metrics.ObserveRenewal("success")
		r.store.SetToken(token)
		return token, nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	}
}

// rejected reports whether the renewal endpoint answered and refused, as opposed to a
// network or timeout failure that says nothing about the session.
func rejected(err error) bool {
	var apiErr *learnsphere.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status != 0
	}
	var empty *emptyCredentialError
	return errors.As(err, &empty)
}

func (r *Renewer) skipped(request *http.Request) bool {
	return r.skip != nil && r.skip(request)
}

func (r *Renewer) expired() bool {
	token := r.store.Token()
	if token == "" {
		return false
	}
	r.mux.Lock()
	parsed := r.parsed
	if parsed == nil || parsed.Token != token {
		var err error
		if parsed, err = ParseCredential(token); err != nil {
			parsed = &Credential{Token: token}
		}
		r.parsed = parsed
	}
	r.mux.Unlock()
	return parsed.Expired(r.clock(), r.skew)
}

func replay(request *http.Request, token string) (*http.Request, error) {
	ctx := withRetried(WithSentToken(request.Context(), token))
	ret := request.Clone(ctx)
	if request.Body != nil && request.Body != http.NoBody {
		if request.GetBody == nil {
			return nil, fmt.Errorf("failed to replay %v %v: body is not rewindable", request.Method, request.URL.Path)
		}
		body, err := request.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to replay %v %v: %w", request.Method, request.URL.Path, err)
		}
		ret.Body = body
	}
	return ret, nil
}

// NewRenewer creates a Renewer refreshing credentials held in store
func NewRenewer(store CredentialStore, refresh RefreshFunc, options ...Option) *Renewer {
	ret := &Renewer{
		store:     store,
		refresh:   refresh,
		skew:      10 * time.Second,
		clock:     time.Now,
		proactive: true,
		logger:    learnsphere.DefaultLogger,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
