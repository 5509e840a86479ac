package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/transport"
)

type testStore struct {
	mux      sync.Mutex
	token    string
	cleared  int
	renewals int
	active   int
}

func (s *testStore) Token() string {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.token
}

func (s *testStore) SetToken(token string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.token = token
}

func (s *testStore) Clear() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.token = ""
	s.cleared++
}

func (s *testStore) BeginRenewal() func() {
	s.mux.Lock()
	s.renewals++
	s.active++
	s.mux.Unlock()
	return func() {
		s.mux.Lock()
		s.active--
		s.mux.Unlock()
	}
}

// tokenServer answers 200 only for the accepted bearer token and echoes the request body.
type tokenServer struct {
	*httptest.Server
	accepted     atomic.Value
	calls        atomic.Int32
	unauthorized atomic.Int32
	bodies       chan string
}

func newTokenServer(t *testing.T, accepted string) *tokenServer {
	ret := &tokenServer{bodies: make(chan string, 64)}
	ret.accepted.Store(accepted)
	ret.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ret.calls.Add(1)
		data, _ := io.ReadAll(r.Body)
		ret.bodies <- string(data)
		if r.Header.Get("Authorization") != "Bearer "+ret.accepted.Load().(string) {
			ret.unauthorized.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ret.Close)
	return ret
}

func newDoer(store CredentialStore, renewer *Renewer) transport.Doer {
	return transport.Chain(http.DefaultClient, renewer.Middleware(), Bearer(store))
}

func newRequest(t *testing.T, method, URL, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request, err := http.NewRequest(method, URL, reader)
	require.NoError(t, err)
	return request
}

func TestRenewer_RenewsAndReplaysOnce(t *testing.T) {
	server := newTokenServer(t, "new")
	store := &testStore{token: "old"}
	var refreshes atomic.Int32
	renewer := NewRenewer(store, func(ctx context.Context) (string, error) {
		refreshes.Add(1)
		return "new", nil
	}, WithLogger(learnsphere.NopLogger{}))

	response, err := newDoer(store, renewer).Do(newRequest(t, http.MethodPost, server.URL+"/courses", `{"title":"Go"}`))
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.EqualValues(t, 2, server.calls.Load())
	assert.EqualValues(t, 1, refreshes.Load())
	assert.Equal(t, "new", store.Token())
	assert.Equal(t, `{"title":"Go"}`, <-server.bodies)
	assert.Equal(t, `{"title":"Go"}`, <-server.bodies)
}

func TestRenewer_SingleRetry(t *testing.T) {
	server := newTokenServer(t, "never")
	store := &testStore{token: "old"}
	var refreshes atomic.Int32
	renewer := NewRenewer(store, func(ctx context.Context) (string, error) {
		refreshes.Add(1)
		return "new", nil
	}, WithLogger(learnsphere.NopLogger{}))

	response, err := newDoer(store, renewer).Do(newRequest(t, http.MethodGet, server.URL+"/courses", ""))
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.EqualValues(t, 2, server.calls.Load())
	assert.EqualValues(t, 1, refreshes.Load())
}

func TestRenewer_ConcurrentFailuresShareOneRenewal(t *testing.T) {
	const concurrency = 10
	server := newTokenServer(t, "new")
	store := &testStore{token: "old"}
	var refreshes atomic.Int32
	renewer := NewRenewer(store, func(ctx context.Context) (string, error) {
		refreshes.Add(1)
		deadline := time.Now().Add(2 * time.Second)
		for server.unauthorized.Load() < concurrency && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		return "new", nil
	}, WithLogger(learnsphere.NopLogger{}))
	doer := newDoer(store, renewer)

	var wg sync.WaitGroup
	statuses := make(chan int, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			request, _ := http.NewRequest(http.MethodGet, server.URL+"/reports/dashboard", nil)
			response, err := doer.Do(request)
			if err != nil {
				statuses <- 0
				return
			}
			_ = response.Body.Close()
			statuses <- response.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}
	assert.EqualValues(t, 1, refreshes.Load())
	assert.Equal(t, 1, store.renewals)
	assert.EqualValues(t, concurrency, server.unauthorized.Load())
}

func TestRenewer_FailureClearsSession(t *testing.T) {
	server := newTokenServer(t, "new")
	store := &testStore{token: "old"}
	renewer := NewRenewer(store, func(ctx context.Context) (string, error) {
		return "", learnsphere.NewStatusError(http.StatusUnauthorized, []byte(`{"message":"refresh revoked"}`))
	}, WithLogger(learnsphere.NopLogger{}))

	response, err := newDoer(store, renewer).Do(newRequest(t, http.MethodGet, server.URL+"/auth/me", ""))
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.EqualValues(t, 1, server.calls.Load())
	assert.Equal(t, "", store.Token())
	assert.Equal(t, 1, store.cleared)

	_, err = renewer.Renew(context.Background())
	assert.ErrorIs(t, err, learnsphere.ErrSessionExpired)
	assert.Equal(t, learnsphere.KindUnauthorized, learnsphere.KindOf(err))
}

func TestRenewer_RefreshFailureOutcome(t *testing.T) {
	tests := []struct {
		name        string
		refreshErr  error
		wantCleared bool
		wantKind    learnsphere.Kind
	}{
		{
			name:        "renewal refused",
			refreshErr:  learnsphere.NewStatusError(http.StatusUnauthorized, nil),
			wantCleared: true,
			wantKind:    learnsphere.KindUnauthorized,
		},
		{
			name:        "renewal endpoint failing",
			refreshErr:  learnsphere.NewStatusError(http.StatusServiceUnavailable, nil),
			wantCleared: true,
			wantKind:    learnsphere.KindServer,
		},
		{
			name:       "connection reset",
			refreshErr: learnsphere.NewTransportError(errors.New("connection reset by peer")),
			wantKind:   learnsphere.KindNetwork,
		},
		{
			name:       "renewal timed out",
			refreshErr: learnsphere.NewTransportError(context.DeadlineExceeded),
			wantKind:   learnsphere.KindTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTokenServer(t, "new")
			store := &testStore{token: "old"}
			renewer := NewRenewer(store, func(ctx context.Context) (string, error) {
				return "", tt.refreshErr
			}, WithLogger(learnsphere.NopLogger{}))

			response, err := newDoer(store, renewer).Do(newRequest(t, http.MethodGet, server.URL+"/courses", ""))
			assert.EqualValues(t, 1, server.calls.Load())
			if tt.wantCleared {
				require.NoError(t, err)
				defer response.Body.Close()
				assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
				assert.Equal(t, "", store.Token())
				assert.Equal(t, 1, store.cleared)
			} else {
				require.Error(t, err)
				assert.Nil(t, response)
				assert.Equal(t, tt.wantKind, learnsphere.KindOf(err))
				assert.False(t, errors.Is(err, learnsphere.ErrSessionExpired))
				assert.Equal(t, "old", store.Token())
				assert.Equal(t, 0, store.cleared)
			}

			_, err = renewer.Renew(context.Background())
			assert.Equal(t, tt.wantCleared, errors.Is(err, learnsphere.ErrSessionExpired))
			assert.Equal(t, tt.wantKind, learnsphere.KindOf(err))
		})
	}
}

func TestRenewer_SkipsExcludedRequests(t *testing.T) {
	server := newTokenServer(t, "new")
	store := &testStore{token: "old"}
	var refreshes atomic.Int32
	renewer := NewRenewer(store, func(ctx context.Context) (string, error) {
		refreshes.Add(1)
		return "new", nil
	}, WithSkip(func(request *http.Request) bool {
		return strings.HasSuffix(request.URL.Path, "/auth/login")
	}), WithLogger(learnsphere.NopLogger{}))

	response, err := newDoer(store, renewer).Do(newRequest(t, http.MethodPost, server.URL+"/auth/login", `{}`))
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.EqualValues(t, 0, refreshes.Load())
	assert.Equal(t, "old", store.Token())
}

func TestRenewer_ProactiveRenewal(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	expired := signedToken(t, now.Add(-time.Minute))
	server := newTokenServer(t, "fresh")
	store := &testStore{token: expired}
	var refreshes atomic.Int32
	renewer := NewRenewer(store, func(ctx context.Context) (string, error) {
		refreshes.Add(1)
		return "fresh", nil
	}, WithClock(func() time.Time { return now }), WithLogger(learnsphere.NopLogger{}))

	response, err := newDoer(store, renewer).Do(newRequest(t, http.MethodGet, server.URL+"/courses", ""))
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.EqualValues(t, 1, server.calls.Load())
	assert.EqualValues(t, 1, refreshes.Load())
}

func TestRenewer_CallerCancelDoesNotAbortRenewal(t *testing.T) {
	store := &testStore{token: "old"}
	release := make(chan struct{})
	renewer := NewRenewer(store, func(ctx context.Context) (string, error) {
		<-release
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "new", nil
	}, WithLogger(learnsphere.NopLogger{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := renewer.Renew(ctx)
		done <- err
	}()
	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
	close(release)
	assert.Eventually(t, func() bool { return store.Token() == "new" }, time.Second, 5*time.Millisecond)
}

func TestBearer(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		pinned *string
		want   string
	}{
		{name: "held credential", token: "abc", want: "Bearer abc"},
		{name: "no credential", token: "", want: ""},
		{name: "pinned credential wins", token: "abc", pinned: strPtr("xyz"), want: "Bearer xyz"},
		{name: "pinned empty credential", token: "abc", pinned: strPtr(""), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			doer := Bearer(&testStore{token: tt.token})(transport.DoerFunc(func(request *http.Request) (*http.Response, error) {
				got = request.Header.Get("Authorization")
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
			}))
			request := httptest.NewRequest(http.MethodGet, "http://localhost/courses", nil)
			request.Header.Set("Authorization", "Bearer stale")
			if tt.pinned != nil {
				request = request.WithContext(WithSentToken(request.Context(), *tt.pinned))
			}
			_, err := doer.Do(request)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCredential(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	credential, err := ParseCredential(signedToken(t, now.Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, "u-1", credential.Subject)
	assert.False(t, credential.Expired(now, 10*time.Second))
	assert.True(t, credential.Expired(now, time.Minute))

	_, err = ParseCredential("opaque")
	assert.Error(t, err)
	assert.False(t, (&Credential{Token: "opaque"}).Expired(now, time.Hour))
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func strPtr(s string) *string { return &s }
