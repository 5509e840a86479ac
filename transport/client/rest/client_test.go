package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/internal/fakeapi"
	"github.com/viant/learnsphere/session"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "default path", input: "http://localhost:4000", want: "http://localhost:4000/api/v1"},
		{name: "trailing slash", input: "https://lms.example.com/api/v2/", want: "https://lms.example.com/api/v2"},
		{name: "custom path", input: "http://127.0.0.1:8080/backend", want: "http://127.0.0.1:8080/backend"},
		{name: "missing host", input: "/api/v1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAuthEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/api/v1/auth/login", want: true},
		{path: "/api/v1/auth/refresh", want: true},
		{path: "/api/v1/auth/logout", want: true},
		{path: "/api/v1/auth/me", want: false},
		{path: "/api/v1/courses", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "http://localhost"+tt.path, nil)
			assert.Equal(t, tt.want, IsAuthEndpoint(request))
		})
	}
}

func login(t *testing.T, client *Client, store *session.Store) {
	result := &learnsphere.LoginResult{}
	err := client.Post(context.Background(), learnsphere.PathLogin, map[string]string{
		"email":    fakeapi.AdminEmail,
		"password": fakeapi.AdminPassword,
	}, result)
	require.NoError(t, err)
	store.SetToken(result.AccessToken)
	store.SetUser(result.User)
}

func TestClient_RenewsExpiredCredential(t *testing.T) {
	server := fakeapi.New()
	defer server.Close()
	store := session.NewStore()
	client, err := New(server.URL(), WithStore(store), WithLogger(learnsphere.NopLogger{}))
	require.NoError(t, err)
	login(t, client, store)
	issued := store.Token()

	server.ExpireAccess()
	user := &learnsphere.User{}
	require.NoError(t, client.Get(context.Background(), learnsphere.PathMe, nil, user))

	assert.Equal(t, fakeapi.AdminID, user.ID)
	assert.NotEqual(t, issued, store.Token())
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, 1, server.Calls(http.MethodPost, learnsphere.PathRefresh))
	assert.Equal(t, 2, server.Calls(http.MethodGet, learnsphere.PathMe))
}

func TestClient_RevokedRenewalEndsSession(t *testing.T) {
	server := fakeapi.New()
	defer server.Close()
	store := session.NewStore()
	client, err := New(server.URL(), WithStore(store), WithLogger(learnsphere.NopLogger{}))
	require.NoError(t, err)
	login(t, client, store)

	server.ExpireAccess()
	server.RevokeRefresh()
	err = client.Get(context.Background(), learnsphere.PathMe, nil, &learnsphere.User{})

	require.Error(t, err)
	assert.True(t, learnsphere.IsUnauthorized(err))
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Token())
	assert.Equal(t, 1, server.Calls(http.MethodPost, learnsphere.PathRefresh))
}

func TestClient_LoginFailureDoesNotRenew(t *testing.T) {
	server := fakeapi.New()
	defer server.Close()
	store := session.NewStore()
	client, err := New(server.URL(), WithStore(store), WithLogger(learnsphere.NopLogger{}))
	require.NoError(t, err)

	err = client.Post(context.Background(), learnsphere.PathLogin, map[string]string{"email": fakeapi.AdminEmail, "password": "wrong"}, nil)
	require.Error(t, err)
	assert.True(t, learnsphere.IsUnauthorized(err))
	assert.Equal(t, "INVALID_CREDENTIALS", err.(*learnsphere.Error).Code)
	assert.Equal(t, 0, server.Calls(http.MethodPost, learnsphere.PathRefresh))
}

func TestClient_ValidationError(t *testing.T) {
	server := fakeapi.New()
	defer server.Close()
	store := session.NewStore()
	client, err := New(server.URL(), WithStore(store), WithLogger(learnsphere.NopLogger{}))
	require.NoError(t, err)
	login(t, client, store)

	err = client.Post(context.Background(), learnsphere.PathCourses, &learnsphere.CourseInput{}, nil)
	require.Error(t, err)
	assert.True(t, learnsphere.IsValidation(err))
	apiErr := err.(*learnsphere.Error)
	assert.Equal(t, "required", apiErr.Field("title"))
	assert.Equal(t, http.MethodPost, apiErr.Method)
	assert.Equal(t, learnsphere.PathCourses, apiErr.Path)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()
	client, err := New(server.URL, WithTimeout(50*time.Millisecond), WithLogger(learnsphere.NopLogger{}))
	require.NoError(t, err)

	err = client.Get(context.Background(), learnsphere.PathHealth, nil, nil)
	require.Error(t, err)
	assert.Equal(t, learnsphere.KindTimeout, learnsphere.KindOf(err))
	assert.True(t, learnsphere.IsTemporary(err))
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	store := session.NewStore()
	store.SetToken("abc")
	client, err := New(server.URL, WithStore(store), WithUserAgent("lmsadmin/test"), WithLogger(learnsphere.NopLogger{}))
	require.NoError(t, err)

	require.NoError(t, client.Put(context.Background(), "/courses/c-1/lessons/reorder", map[string]interface{}{"lessons": []string{}}, nil))
	assert.Equal(t, "Bearer abc", got.Get(learnsphere.HeaderAuthorization))
	assert.Equal(t, "lmsadmin/test", got.Get(learnsphere.HeaderUserAgent))
	assert.Equal(t, "application/json", got.Get(learnsphere.HeaderContentType))
	assert.NotEmpty(t, got.Get(learnsphere.HeaderRequestID))
}
