// ABOUTME: Domain models for scraped and processed reading content
// ABOUTME: Defines the raw collaborator document and the pipeline output

package domain

import "strings"

// DocumentMetadata describes the page a document was scraped from
type DocumentMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	SourceURL   string `json:"sourceURL,omitempty"`
}

// ScrapedDocument is the raw content returned by a scraping collaborator.
// It is fetched per URL and never reused across navigations.
type ScrapedDocument struct {
	Markdown string           `json:"markdown"`
	HTML     string           `json:"html"`
	Metadata DocumentMetadata `json:"metadata"`
}

// Empty reports whether the collaborator produced no usable content
func (d ScrapedDocument) Empty() bool {
	return strings.TrimSpace(d.Markdown) == "" && strings.TrimSpace(d.HTML) == ""
}

// DocumentStatus is the terminal state of a processed document
type DocumentStatus string

const (
	DocumentReady       DocumentStatus = "ok"
	DocumentUnavailable DocumentStatus = "unavailable"
)

// ProcessedDocument is the safe, highlighted, link-extracted rendition of a page
type ProcessedDocument struct {
	Status     DocumentStatus `json:"status"`
	SourceURL  string         `json:"sourceUrl"`
	Title      string         `json:"title,omitempty"`
	Markdown   string         `json:"markdown,omitempty"`
	HTML       string         `json:"html,omitempty"`
	Text       string         `json:"text,omitempty"`
	TopicLinks []TopicLink    `json:"topicLinks"`
}

