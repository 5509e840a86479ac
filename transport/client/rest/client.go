package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs/url"
	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/internal/metrics"
	"github.com/viant/learnsphere/transport"
	"github.com/viant/learnsphere/transport/auth"
	"golang.org/x/net/publicsuffix"
)

// Client sends JSON requests to the LearnSphere REST API.
// Every call goes through the same middleware chain: renewal wraps bearer attachment wraps the HTTP client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	doer         transport.Doer
	store        auth.CredentialStore
	renewer      *auth.Renewer
	renewOptions []auth.Option
	middlewares  []transport.Middleware
	logger       learnsphere.Logger
	metrics      *metrics.Metrics
	userAgent    string
}

// BaseURL returns API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Renewer returns the credential renewer, nil when no store was configured
func (c *Client) Renewer() *auth.Renewer {
	return c.renewer
}

// Get sends GET request and decodes response into out
func (c *Client) Get(ctx context.Context, path string, query neturl.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends POST request with JSON body
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends PUT request with JSON body
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch sends PATCH request with JSON body
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete sends DELETE request
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends a request through the middleware chain.
// Non 2xx responses and transport failures are returned as *learnsphere.Error.
func (c *Client) Do(ctx context.Context, method, path string, query neturl.Values, body, out interface{}) error {
	request, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	started := time.Now()
	response, err := c.doer.Do(request)
	if err != nil {
		c.metrics.ObserveRequest(method, "error", time.Since(started).Seconds())
		ret := learnsphere.NewTransportError(err)
		if apiErr := (*learnsphere.Error)(nil); errors.As(err, &apiErr) {
			// renewal errors are shared between callers
			copied := *apiErr
			ret = &copied
		}
		ret.Method, ret.Path = method, path
		return ret
	}
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	c.metrics.ObserveRequest(method, statusClass(response.StatusCode), time.Since(started).Seconds())
	if err != nil {
		ret := learnsphere.NewTransportError(fmt.Errorf("failed to read response: %w", err))
		ret.Method, ret.Path = method, path
		return ret
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		ret := learnsphere.NewStatusError(response.StatusCode, data)
		ret.Method, ret.Path = method, path
		c.logger.Debugf("%v %v failed: %v", method, path, ret)
		return ret
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %v %v response: %w", method, path, err)
	}
	return nil
}

// Refresh exchanges the renewal cookie for a new access credential.
// It bypasses the middleware chain so a failing refresh can never trigger another renewal.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	request, err := c.newRequest(ctx, http.MethodPost, learnsphere.PathRefresh, nil, nil)
	if err != nil {
		return "", err
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", learnsphere.NewTransportError(err)
	}
	defer response.Body.Close()
	data, _ := io.ReadAll(response.Body)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		ret := learnsphere.NewStatusError(response.StatusCode, data)
		ret.Method, ret.Path = http.MethodPost, learnsphere.PathRefresh
		return "", ret
	}
	result := struct {
		AccessToken string `json:"accessToken"`
	}{}
	if err = json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	return result.AccessToken, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query neturl.Values, body interface{}) (*http.Request, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %v %v request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}
	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		request.Header.Set(learnsphere.HeaderContentType, "application/json")
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set(learnsphere.HeaderRequestID, uuid.NewString())
	if c.userAgent != "" {
		request.Header.Set(learnsphere.HeaderUserAgent, c.userAgent)
	}
	return request, nil
}

// IsAuthEndpoint reports requests that must never trigger renewal.
func IsAuthEndpoint(request *http.Request) bool {
	path := request.URL.Path
	return strings.HasSuffix(path, learnsphere.PathLogin) ||
		strings.HasSuffix(path, learnsphere.PathRefresh) ||
		strings.HasSuffix(path, learnsphere.PathLogout)
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

func normalizeBaseURL(baseURL string) (string, error) {
	parsed, err := neturl.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %v: %w", baseURL, err)
	}
	host := url.Host(baseURL)
	if host == "" {
		return "", fmt.Errorf("invalid base URL %v: host is empty", baseURL)
	}
	basePath := strings.TrimRight(parsed.Path, "/")
	if basePath == "" {
		basePath = learnsphere.DefaultBasePath
	}
	return fmt.Sprintf("%s://%s%s", url.Scheme(baseURL, "http"), host, basePath), nil
}

// New creates a Client for baseURL; a base URL without a path gets the default /api/v1 prefix.
func New(baseURL string, options ...Option) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	// Default http.Client with cookie jar for renewal cookie continuity, can be overridden via options
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	c := &Client{
		baseURL:    normalized,
		httpClient: &http.Client{Jar: jar},
		timeout:    30 * time.Second,
		logger:     learnsphere.DefaultLogger,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient.Timeout == 0 {
		c.httpClient.Timeout = c.timeout
	}
	middlewares := append([]transport.Middleware{}, c.middlewares...)
	if c.store != nil {
		renewOptions := append([]auth.Option{
			auth.WithSkip(IsAuthEndpoint),
			auth.WithLogger(c.logger),
			auth.WithMetrics(c.metrics),
		}, c.renewOptions...)
		c.renewer = auth.NewRenewer(c.store, c.Refresh, renewOptions...)
		middlewares = append(middlewares, c.renewer.Middleware(), auth.Bearer(c.store))
	}
	c.doer = transport.Chain(c.httpClient, middlewares...)
	return c, nil
}
