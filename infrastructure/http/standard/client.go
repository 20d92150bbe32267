// ABOUTME: Standard HTTP client implementation with retry logic and timeout support
// ABOUTME: Carries the default headers collaborators expect, such as the bearer token

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"studyflow-api/core/interfaces"
)

const (
	maxRetries = 3
	userAgent  = "StudyFlow/1.0"
)

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client  *http.Client
	headers http.Header
}

// Option configures a StandardHTTPClient
type Option func(*StandardHTTPClient)

// WithHeader adds a header sent with every request
func WithHeader(key, value string) Option {
	return func(c *StandardHTTPClient) {
		c.headers.Set(key, value)
	}
}

// WithBearerToken authenticates every request; an empty token is ignored
func WithBearerToken(token string) Option {
	return func(c *StandardHTTPClient) {
		if token != "" {
			c.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithTransport replaces the round tripper, e.g. to log outgoing requests
func WithTransport(rt http.RoundTripper) Option {
	return func(c *StandardHTTPClient) {
		c.client.Transport = rt
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout.
// A zero timeout leaves the request bounded only by its context, which streaming
// responses need.
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client:  &http.Client{Timeout: timeout},
		headers: http.Header{},
	}
	c.headers.Set("User-Agent", userAgent)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request, retrying 5xx responses and network errors
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err = c.client.Do(req)
		if err != nil {
			resp = nil
			lastErr = err
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 {
			break
		}

		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		// the last 5xx response is returned to the caller as-is
		if attempt < maxRetries-1 {
			resp.Body.Close()
			resp = nil
		}
	}

	if resp == nil {
		return nil, lastErr
	}
	return wrapResponse(resp), nil
}

// Post performs an HTTP POST request with a JSON body. Posts are not retried;
// collaborator clients own their retry policy.
func (c *StandardHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	return wrapResponse(resp), nil
}

func (c *StandardHTTPClient) applyHeaders(req *http.Request) {
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
}

func wrapResponse(resp *http.Response) *httpResponse {
	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
