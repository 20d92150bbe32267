// ABOUTME: Content sanitizer combining boilerplate rules, an HTML allow-list and a script guard
// ABOUTME: Markdown-only documents are rendered with goldmark and then sanitized like HTML

package sanitize

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var proseElements = []string{
	"p", "br", "hr", "div", "span", "section", "article",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"strong", "b", "em", "i", "u", "s", "del", "ins", "sub", "sup", "small",
	"mark", "a", "img",
	"ul", "ol", "li", "dl", "dt", "dd",
	"blockquote", "pre", "code", "kbd",
	"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
	"figure", "figcaption",
}

// NewPolicy returns the allow-list used for rendered reading content
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(proseElements...)

	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class", "title", "style").Globally()
	p.AllowStyles("background-color", "color", "font-weight", "font-style", "text-align", "text-decoration").Globally()

	p.AllowURLSchemes(AllowedSchemes...)
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	return p
}

// Sanitizer cleans scraped markdown and HTML into safe, renderable content
type Sanitizer struct {
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
}

// New creates a sanitizer with the default allow-list policy
func New() *Sanitizer {
	return &Sanitizer{
		policy: NewPolicy(),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// raw HTML passes through so highlight marks survive; the policy strips the rest
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// CleanMarkdown removes boilerplate and restores paragraph structure
func (s *Sanitizer) CleanMarkdown(raw string) string {
	cleaned := MarkdownBoilerplate.Apply(raw)
	cleaned = strings.TrimSpace(cleaned)
	return strings.TrimSpace(MarkdownStructure.Apply(cleaned))
}

// CleanHTML removes promotional and video elements
func (s *Sanitizer) CleanHTML(raw string) string {
	return strings.TrimSpace(HTMLBoilerplate.Apply(raw))
}

// SafeMarkdown neutralizes unsafe link targets and strips script constructs
// from markdown
func (s *Sanitizer) SafeMarkdown(markdown string) string {
	return ScriptGuard.ApplyUntilStable(guardLinks(markdown))
}

// SafeHTML applies the allow-list policy and then the script guard
func (s *Sanitizer) SafeHTML(content string) string {
	return ScriptGuard.ApplyUntilStable(s.policy.Sanitize(content))
}

// RenderMarkdown converts markdown to sanitized HTML. A render failure yields
// empty output rather than unsanitized content.
func (s *Sanitizer) RenderMarkdown(markdown string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(markdown), &buf); err != nil {
		return ""
	}
	return s.SafeHTML(buf.String())
}
