// ABOUTME: Client for the proxy extraction service used when the scraper is unavailable
// ABOUTME: Accepts only substantive readable-article HTML and derives title and markdown from it

package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const (
	// proxy output at or below this length is an error page, not an article
	minProxyContentLength = 500
	proxyFailureMarker    = "Could not extract content"
)

// ProxyClient calls the proxy extraction service
type ProxyClient struct {
	http     interfaces.HTTPClient
	endpoint string
	logger   interfaces.Logger
}

// NewProxyClient creates a proxy service client for endpoint
func NewProxyClient(http interfaces.HTTPClient, endpoint string, logger interfaces.Logger) *ProxyClient {
	return &ProxyClient{http: http, endpoint: endpoint, logger: logger}
}

type proxyResponse struct {
	HTML        string `json:"html"`
	ContentType string `json:"contentType"`
	OriginalURL string `json:"originalUrl"`
	Error       string `json:"error"`
}

// Fetch asks the proxy for url's readable HTML
func (p *ProxyClient) Fetch(ctx context.Context, url string) (*domain.ScrapedDocument, error) {
	url = NormalizeURL(url)
	payload, err := json.Marshal(scrapeRequest{URL: url})
	if err != nil {
		return nil, err
	}

	resp, err := p.http.Post(ctx, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapError(err, "proxy request failed")
	}
	defer resp.Body().Close()

	var data proxyResponse
	if err := json.NewDecoder(resp.Body()).Decode(&data); err != nil {
		return nil, &errors.ExternalAPIError{API: "proxy", StatusCode: resp.StatusCode(), Message: "invalid response format"}
	}

	if resp.StatusCode() >= 400 {
		msg := data.Error
		if msg == "" {
			msg = fmt.Sprintf("failed to fetch content: %d", resp.StatusCode())
		}
		return nil, &errors.ExternalAPIError{API: "proxy", StatusCode: resp.StatusCode(), Message: msg}
	}

	if len(data.HTML) <= minProxyContentLength || strings.Contains(data.HTML, proxyFailureMarker) {
		return nil, &errors.ContentUnavailableError{URL: url, Reason: "proxy returned no readable content"}
	}

	p.logger.Debug("Proxy returned content", map[string]interface{}{
		"url":    url,
		"length": len(data.HTML),
	})
	return documentFromHTML(data.HTML, url, ""), nil
}

// documentFromHTML builds a scraped document from article HTML. title is used
// when the HTML has no <h1>.
func documentFromHTML(html, sourceURL, title string) *domain.ScrapedDocument {
	doc := &domain.ScrapedDocument{
		HTML:     html,
		Metadata: domain.DocumentMetadata{Title: title, SourceURL: sourceURL},
	}

	if parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		if h1 := strings.TrimSpace(parsed.Find("h1").First().Text()); h1 != "" {
			doc.Metadata.Title = h1
		}
		if desc, ok := parsed.Find(`meta[name="description"]`).Attr("content"); ok {
			doc.Metadata.Description = strings.TrimSpace(desc)
		}
	}

	converter := md.NewConverter("", true, nil)
	if markdown, err := converter.ConvertString(html); err == nil {
		doc.Markdown = markdown
	}
	return doc
}
