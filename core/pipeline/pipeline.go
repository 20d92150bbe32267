// ABOUTME: Reading pipeline turning raw scraped content into a safe processed document
// ABOUTME: Runs cleaning, highlighting, topic-link extraction, sanitizing and link rewriting

package pipeline

import (
	"strings"

	"studyflow-api/core/domain"
	"studyflow-api/core/highlight"
	"studyflow-api/core/navigation"
	"studyflow-api/core/sanitize"
	"studyflow-api/core/topiclinks"
	"studyflow-api/pkg/utils/html"
)

// Pipeline holds the configured stages. Process has no other state and is
// safe for concurrent use.
type Pipeline struct {
	sanitizer *sanitize.Sanitizer
	extractor *topiclinks.Extractor
}

// New creates a pipeline with the given topic-link extractor
func New(extractor *topiclinks.Extractor) *Pipeline {
	if extractor == nil {
		extractor = topiclinks.NewDefaultExtractor()
	}
	return &Pipeline{
		sanitizer: sanitize.New(),
		extractor: extractor,
	}
}

// Process runs the full pipeline. Documents without content come back with
// status unavailable and the source URL, so callers can offer the original page.
func (p *Pipeline) Process(raw domain.ScrapedDocument, sourceURL string, highlights []domain.Highlight) domain.ProcessedDocument {
	if raw.Metadata.SourceURL != "" {
		sourceURL = raw.Metadata.SourceURL
	}
	if raw.Empty() {
		return Unavailable(sourceURL)
	}

	markdown := p.sanitizer.CleanMarkdown(raw.Markdown)
	content := p.sanitizer.CleanHTML(raw.HTML)

	markdown = highlight.Inject(markdown, highlights)
	content = highlight.Inject(content, highlights)

	extracted := p.extractor.Extract(markdown, content)

	markdown = p.sanitizer.SafeMarkdown(extracted.Markdown)
	if strings.TrimSpace(extracted.HTML) != "" {
		content = p.sanitizer.SafeHTML(extracted.HTML)
	} else {
		content = p.sanitizer.RenderMarkdown(markdown)
	}

	if strings.TrimSpace(markdown) == "" && strings.TrimSpace(content) == "" {
		return Unavailable(sourceURL)
	}

	content = navigation.RewriteLinks(content, sourceURL)

	links := make([]domain.TopicLink, 0, len(extracted.Links))
	for _, link := range extracted.Links {
		link.Href = navigation.Resolve(link.Href, sourceURL)
		if navigation.Navigable(link.Href) {
			links = append(links, link)
		}
	}

	return domain.ProcessedDocument{
		Status:     domain.DocumentReady,
		SourceURL:  sourceURL,
		Title:      strings.TrimSpace(raw.Metadata.Title),
		Markdown:   markdown,
		HTML:       content,
		Text:       html.PlainText(content),
		TopicLinks: links,
	}
}

// Unavailable is the terminal document for a page with no usable content
func Unavailable(sourceURL string) domain.ProcessedDocument {
	return domain.ProcessedDocument{
		Status:     domain.DocumentUnavailable,
		SourceURL:  sourceURL,
		TopicLinks: []domain.TopicLink{},
	}
}
