// ABOUTME: HTML utilities for stripping tags and decoding entities
// ABOUTME: Extracts readable plain text from sanitized reading HTML

package html

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "br": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "dt": true, "dd": true,
	"blockquote": true, "pre": true, "table": true, "tr": true,
	"figure": true, "figcaption": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// StripHTML removes HTML tags and decodes entities, collapsing all whitespace
func StripHTML(content string) string {
	return strings.Join(strings.Fields(PlainText(content)), " ")
}

// PlainText extracts text from HTML, keeping one line per block element.
// Script and style content is dropped.
func PlainText(content string) string {
	z := xhtml.NewTokenizer(strings.NewReader(content))

	var b strings.Builder
	skipDepth := 0
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			// io.EOF or a tokenizer error; either way we keep what was read
			return tidyLines(b.String())
		case xhtml.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] {
				skipDepth++
			} else if blockElements[tag] {
				b.WriteByte('\n')
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] && skipDepth > 0 {
				skipDepth--
			} else if blockElements[tag] {
				b.WriteByte('\n')
			}
		}
	}
}

// DecodeEntities decodes HTML entities, mapping non-breaking spaces to spaces
func DecodeEntities(text string) string {
	return strings.ReplaceAll(xhtml.UnescapeString(text), "\u00a0", " ")
}

func tidyLines(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
