// ABOUTME: Client for the scrape collaborator that turns a URL into markdown and HTML
// ABOUTME: Retries resource-limit failures with linear backoff

package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 2 * time.Second
)

// Client calls the scrape service
type Client struct {
	http        interfaces.HTTPClient
	endpoint    string
	logger      interfaces.Logger
	maxAttempts int
	backoff     time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithRetry sets the total attempt count and the linear backoff base
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// NewClient creates a scrape service client for endpoint
func NewClient(http interfaces.HTTPClient, endpoint string, logger interfaces.Logger, opts ...Option) *Client {
	c := &Client{
		http:        http,
		endpoint:    endpoint,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type scrapeResponse struct {
	Success  bool                    `json:"success"`
	Markdown string                  `json:"markdown"`
	HTML     string                  `json:"html"`
	Metadata domain.DocumentMetadata `json:"metadata"`
	Error    string                  `json:"error"`
}

// Fetch scrapes url. Resource-limit errors are retried; wait between
// attempts grows linearly (backoff × attempt).
func (c *Client) Fetch(ctx context.Context, url string) (*domain.ScrapedDocument, error) {
	url = NormalizeURL(url)
	if url == "" {
		return nil, &errors.ValidationError{Field: "url", Message: "URL is required"}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		start := time.Now()
		doc, err := c.fetchOnce(ctx, url)
		if err == nil {
			c.logger.Info("Scraped page", map[string]interface{}{
				"url":      url,
				"attempt":  attempt,
				"duration": time.Since(start).String(),
			})
			return doc, nil
		}

		lastErr = err
		if !errors.IsResourceLimit(err) || attempt == c.maxAttempts {
			break
		}

		wait := c.backoff * time.Duration(attempt)
		c.logger.Warn("Scrape hit resource limit, retrying", map[string]interface{}{
			"url":     url,
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		})

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.logger.Error("Scrape failed", map[string]interface{}{
		"url":   url,
		"error": lastErr.Error(),
	})
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string) (*domain.ScrapedDocument, error) {
	payload, err := json.Marshal(scrapeRequest{URL: url})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapError(err, "scrape request failed")
	}
	defer resp.Body().Close()

	if !strings.Contains(resp.Header("Content-Type"), "application/json") {
		return nil, &errors.ExternalAPIError{API: "scrape", StatusCode: resp.StatusCode(), Message: "invalid response format"}
	}

	var data scrapeResponse
	if err := json.NewDecoder(resp.Body()).Decode(&data); err != nil {
		return nil, &errors.ExternalAPIError{API: "scrape", StatusCode: resp.StatusCode(), Message: "invalid response format"}
	}

	if resp.StatusCode() >= 400 || !data.Success {
		msg := data.Error
		if msg == "" {
			msg = fmt.Sprintf("failed to scrape: %d", resp.StatusCode())
		}
		return nil, &errors.ExternalAPIError{API: "scrape", StatusCode: resp.StatusCode(), Message: msg}
	}

	if data.Metadata.SourceURL == "" {
		data.Metadata.SourceURL = url
	}
	return &domain.ScrapedDocument{
		Markdown: data.Markdown,
		HTML:     data.HTML,
		Metadata: data.Metadata,
	}, nil
}

// NormalizeURL trims url and prefixes https:// when no scheme is present
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}
