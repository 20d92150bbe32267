// ABOUTME: Local content extractor used when no remote collaborator can serve a page
// ABOUTME: Fetches the page with colly and extracts the article with go-readability

package scrape

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"

	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly"
)

const (
	localUserAgent   = "Mozilla/5.0 (compatible; StudyFlow/1.0)"
	localMaxBodySize = 5 * 1024 * 1024
)

var articleTemplate = template.Must(template.New("article").Parse(
	`<article class="readable-article">` +
		`{{if .Title}}<h1>{{.Title}}</h1>{{end}}` +
		`{{if .Byline}}<p class="byline">{{.Byline}}</p>{{end}}` +
		`{{.Content}}` +
		`</article>`))

type articleView struct {
	Title   string
	Byline  string
	Content template.HTML
}

// LocalExtractor extracts readable articles without a remote collaborator
type LocalExtractor struct {
	logger  interfaces.Logger
	timeout time.Duration
}

// NewLocalExtractor creates a local extractor; timeout bounds each page fetch
func NewLocalExtractor(logger interfaces.Logger, timeout time.Duration) *LocalExtractor {
	return &LocalExtractor{logger: logger, timeout: timeout}
}

// Fetch downloads pageURL and returns its main article
func (l *LocalExtractor) Fetch(ctx context.Context, pageURL string) (*domain.ScrapedDocument, error) {
	pageURL = NormalizeURL(pageURL)
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, &errors.ValidationError{Field: "url", Message: err.Error()}
	}

	body, err := l.download(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return nil, &errors.ContentUnavailableError{URL: pageURL, Reason: err.Error()}
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, &errors.ContentUnavailableError{URL: pageURL, Reason: "no article content found"}
	}

	var buf bytes.Buffer
	// readability output is re-sanitized by the reading pipeline
	if err := articleTemplate.Execute(&buf, articleView{
		Title:   article.Title,
		Byline:  article.Byline,
		Content: template.HTML(article.Content),
	}); err != nil {
		return nil, errors.WrapError(err, "failed to render article")
	}

	doc := documentFromHTML(buf.String(), pageURL, article.Title)
	doc.Metadata.Description = article.Excerpt
	return doc, nil
}

func (l *LocalExtractor) download(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(localUserAgent),
		colly.MaxBodySize(localMaxBodySize),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	if l.timeout > 0 {
		c.SetRequestTimeout(l.timeout)
	}

	var body []byte
	var status int
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		visitErr = err
	})

	start := time.Now()
	if err := c.Visit(pageURL); err != nil && visitErr == nil {
		visitErr = err
	}
	c.Wait()

	if visitErr != nil {
		l.logger.Debug("Local extraction fetch failed", map[string]interface{}{
			"url":    pageURL,
			"status": status,
			"error":  visitErr.Error(),
		})
		return nil, &errors.ExternalAPIError{API: "origin", StatusCode: status, Message: visitErr.Error()}
	}
	if len(body) == 0 {
		return nil, &errors.ContentUnavailableError{URL: pageURL, Reason: fmt.Sprintf("empty response (status %d)", status)}
	}

	l.logger.Debug("Fetched page for local extraction", map[string]interface{}{
		"url":      pageURL,
		"bytes":    len(body),
		"duration": time.Since(start).String(),
	})
	return body, nil
}
