// ABOUTME: Topic-link extractor that promotes topic links out of reading content
// ABOUTME: Collects matching links into a grid and strips topic anchors from the body

package topiclinks

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"studyflow-api/core/domain"
	htmlutil "studyflow-api/pkg/utils/html"

	"github.com/PuerkitoBio/goquery"
)

// DefaultKeywords is the topic vocabulary matched against anchor text
var DefaultKeywords = []string{
	"prompting", "prompt", "reasoning", "chain", "retrieval", "few-shot", "zero-shot",
	"self-consistency", "tree of thoughts", "generated knowledge", "react", "reflexion",
	"augmented", "program-aided", "active-prompt", "directional stimulus", "multimodal",
	"knowledge graph", "agent", "fine-tuning", "in-context",
}

// DefaultBlockedHosts lists hosts whose links are never promoted to cards
var DefaultBlockedHosts = []string{"twitter.com", "github.com", "linkedin.com", "youtube.com", "youtu.be"}

const (
	minTextLen = 3
	maxTextLen = 80
)

var (
	markdownLink = regexp.MustCompile(`\[([^\[\]]+)\]\(((?:[^()\s]|\([^()\s]*\))+)(?:\s+"[^"]*")?\)`)
	inlineTag    = regexp.MustCompile(`<[^>]*>`)
	spaceRun     = regexp.MustCompile(`\s+`)
	bulletOnly   = regexp.MustCompile(`^([-*+•]|\d+\.)?$`)
	blankRun     = regexp.MustCompile(`\n{3,}`)
)

// Result is the extractor output
type Result struct {
	Markdown string
	HTML     string
	Links    []domain.TopicLink
}

// Extractor finds topic links in markdown and HTML bodies
type Extractor struct {
	topic   *regexp.Regexp
	blocked []string
}

// TopicPattern builds a case-insensitive pattern matching any keyword literally
func TopicPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
	}
	if len(quoted) == 0 {
		// matches nothing
		return regexp.MustCompile(`[^\s\S]`)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

// NewExtractor creates an extractor for the given topic pattern and blocked hosts
func NewExtractor(topic *regexp.Regexp, blockedHosts []string) *Extractor {
	blocked := make([]string, 0, len(blockedHosts))
	for _, h := range blockedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			blocked = append(blocked, h)
		}
	}
	return &Extractor{topic: topic, blocked: blocked}
}

// NewDefaultExtractor uses the default vocabulary and blocked hosts
func NewDefaultExtractor() *Extractor {
	return NewExtractor(TopicPattern(DefaultKeywords), DefaultBlockedHosts)
}

// Extract collects topic links from both bodies and removes topic anchors.
//
// Every anchor whose text matches the topic pattern is removed, but only the
// ones that also pass the href and length filters are collected, so collected
// links are a subset of removed links. Running Extract on its own output
// yields no links.
func (e *Extractor) Extract(markdown, html string) Result {
	seen := make(map[string]bool)
	var links []domain.TopicLink

	collect := func(text, href string) {
		if !e.keep(text, href) {
			return
		}
		key := strings.ToLower(text)
		if seen[key] {
			return
		}
		seen[key] = true
		links = append(links, domain.TopicLink{Text: text, Href: href})
	}

	cleanedMarkdown := e.extractMarkdown(markdown, collect)
	cleanedHTML := e.extractHTML(html, collect)
	if links == nil {
		links = []domain.TopicLink{}
	}

	return Result{
		Markdown: cleanedMarkdown,
		HTML:     cleanedHTML,
		Links:    links,
	}
}

func (e *Extractor) keep(text, href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	if !webHref(href) {
		return false
	}
	if e.blockedHost(href) {
		return false
	}
	n := utf8.RuneCountInString(text)
	if n <= minTextLen || n >= maxTextLen {
		return false
	}
	return e.topic.MatchString(text)
}

// webHref reports whether href is relative or an http(s) URL once entities
// and the control characters browsers ignore are removed
func webHref(href string) bool {
	decoded := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, htmlutil.DecodeEntities(href))
	u, err := url.Parse(decoded)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return true
	}
	return false
}

func (e *Extractor) blockedHost(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, b := range e.blocked {
		if host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}

func (e *Extractor) extractMarkdown(markdown string, collect func(text, href string)) string {
	if markdown == "" {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	changed := false
	for i, line := range lines {
		matches := markdownLink.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		var b strings.Builder
		last := 0
		removed := false
		for _, m := range matches {
			// images share the link syntax
			if m[0] > 0 && line[m[0]-1] == '!' {
				continue
			}
			text := anchorText(line[m[2]:m[3]])
			href := line[m[4]:m[5]]
			collect(text, href)
			if !e.topic.MatchString(text) {
				continue
			}
			b.WriteString(line[last:m[0]])
			last = m[1]
			removed = true
		}
		if !removed {
			continue
		}
		b.WriteString(line[last:])
		lines[i] = tidyLine(line, b.String())
		changed = true
	}

	if !changed {
		return markdown
	}
	out := strings.Join(lines, "\n")
	return strings.TrimSpace(blankRun.ReplaceAllString(out, "\n\n"))
}

func (e *Extractor) extractHTML(html string, collect func(text, href string)) string {
	if strings.TrimSpace(html) == "" {
		return html
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	removed := false
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		text := strings.TrimSpace(spaceRun.ReplaceAllString(a.Text(), " "))
		href, _ := a.Attr("href")
		collect(text, href)
		if !e.topic.MatchString(text) {
			return
		}
		parent := a.Parent()
		a.Remove()
		removed = true
		if goquery.NodeName(parent) == "li" && parent.Children().Length() == 0 && strings.TrimSpace(parent.Text()) == "" {
			parent.Remove()
		}
	})

	if !removed {
		return html
	}
	out, err := doc.Find("body").Html()
	if err != nil {
		return html
	}
	return strings.TrimSpace(blankRun.ReplaceAllString(out, "\n\n"))
}

// anchorText normalizes markdown link text for matching and display
func anchorText(raw string) string {
	text := inlineTag.ReplaceAllString(raw, "")
	text = spaceRun.ReplaceAllString(text, " ")
	return strings.Trim(text, " *_`")
}

// tidyLine collapses the whitespace a removed link leaves behind, keeping
// the indentation of the original line
func tidyLine(original, line string) string {
	indent := original[:len(original)-len(strings.TrimLeft(original, " \t"))]
	body := strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	if bulletOnly.MatchString(body) {
		return ""
	}
	return indent + body
}
