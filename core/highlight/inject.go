// ABOUTME: Highlight injector that wraps learner highlights in mark elements
// ABOUTME: Matches by literal text and never rewrites markup, link targets or existing marks

package highlight

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"studyflow-api/core/domain"
)

// protectedRegion matches spans a highlight may never overlap: existing
// marks, HTML tags, markdown link openers and destinations, and code spans.
var protectedRegion = regexp.MustCompile("(?is)<mark\\b[^>]*>.*?</mark\\s*>|<[^>]*>|!?\\[|\\]\\((?:[^()\\n]|\\([^()\\n]*\\))*\\)|```.*?```|`[^`\\n]+`")

// entityRef matches character references. A highlight may contain whole
// references but never start or end inside one.
var entityRef = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

// MarkOpen returns the opening mark tag used for a color
func MarkOpen(color domain.HighlightColor) string {
	if !color.Valid() {
		color = domain.HighlightYellow
	}
	return fmt.Sprintf(`<mark class="highlight highlight-%s" style="background-color: %s">`, color, color.Background())
}

// Inject wraps every occurrence of each highlight's text in a mark element.
//
// Longer highlights are applied first so a short highlight cannot split a
// longer overlapping one. Text already inside a mark is protected, which makes
// Inject idempotent: applying the same highlights twice yields the same output.
// Highlights whose text no longer appears are skipped silently.
func Inject(content string, highlights []domain.Highlight) string {
	if content == "" || len(highlights) == 0 {
		return content
	}

	ordered := make([]domain.Highlight, len(highlights))
	copy(ordered, highlights)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Text) > len(ordered[j].Text)
	})

	for _, h := range ordered {
		text := strings.TrimSpace(h.Text)
		if text == "" {
			continue
		}
		content = wrapAll(content, text, h.Color)
		// HTML bodies carry entities, so "A & B" is stored as "A &amp; B"
		if escaped := html.EscapeString(text); escaped != text {
			content = wrapAll(content, escaped, h.Color)
		}
	}
	return content
}

// wrapAll replaces occurrences of needle that stay clear of protected
// regions and do not split a character reference
func wrapAll(content, needle string, color domain.HighlightColor) string {
	if !strings.Contains(content, needle) {
		return content
	}
	replacement := MarkOpen(color) + needle + "</mark>"
	protected := protectedRegion.FindAllStringIndex(content, -1)
	entities := entityRef.FindAllStringIndex(content, -1)

	var b strings.Builder
	b.Grow(len(content))
	last, pos := 0, 0
	for pos <= len(content)-len(needle) {
		i := strings.Index(content[pos:], needle)
		if i < 0 {
			break
		}
		start, end := pos+i, pos+i+len(needle)
		if overlaps(protected, start, end) || inside(entities, start) || inside(entities, end) {
			pos = start + 1
			continue
		}
		b.WriteString(content[last:start])
		b.WriteString(replacement)
		last, pos = end, end
	}
	if last == 0 {
		return content
	}
	b.WriteString(content[last:])
	return b.String()
}

// overlaps reports whether [start, end) intersects any of the sorted spans
func overlaps(spans [][]int, start, end int) bool {
	i := sort.Search(len(spans), func(i int) bool { return spans[i][1] > start })
	return i < len(spans) && spans[i][0] < end
}

// inside reports whether offset falls strictly within one of the sorted spans
func inside(spans [][]int, offset int) bool {
	i := sort.Search(len(spans), func(i int) bool { return spans[i][1] > offset })
	return i < len(spans) && spans[i][0] < offset
}
