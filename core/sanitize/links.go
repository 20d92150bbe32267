// ABOUTME: Link target guard for markdown bodies, checked after entity and escape decoding
// ABOUTME: Unsafe links keep their text, unsafe autolinks and definitions are dropped

package sanitize

import (
	"regexp"
	"slices"
	"strings"

	htmlutil "studyflow-api/pkg/utils/html"
)

// AllowedSchemes are the URL schemes a link target may carry
var AllowedSchemes = []string{"http", "https", "mailto", "tel", "ftp"}

var (
	inlineLink     = regexp.MustCompile(`(!?)\[([^\[\]]*)\]\(\s*(<[^<>\n]*>|(?:[^()\s]|\([^()\s]*\))*)(?:\s+(?:"[^"]*"|'[^']*'))?\s*\)`)
	linkDefinition = regexp.MustCompile(`(?m)^ {0,3}\[[^\[\]]+\]:[ \t]*(<[^<>\n]*>|\S+)[^\n]*$`)
	autolink       = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9+.\-]{1,31}:[^<>\s]*)>`)
	rawTag         = regexp.MustCompile(`<[A-Za-z][^<>"']*(?:(?:"[^"]*"|'[^']*')[^<>"']*)*>`)
	urlAttr        = regexp.MustCompile(`(?i)\s(?:href|src|srcset|action|formaction|xlink:href|poster|background|data)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
	schemePrefix   = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.\-]*):`)
	escapedPunct   = regexp.MustCompile("\\\\([!-/:-@\\[-`{-~])")
)

// SafeURL reports whether a link target is relative or uses an allowed
// scheme. Character references, backslash escapes and the control characters
// browsers ignore are removed first, so "&#106;avascript:" is caught.
func SafeURL(raw string) bool {
	target := strings.TrimSpace(raw)
	target = strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
	target = escapedPunct.ReplaceAllString(htmlutil.DecodeEntities(target), "$1")
	target = strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, target)

	m := schemePrefix.FindStringSubmatch(target)
	if m == nil {
		return true
	}
	return slices.Contains(AllowedSchemes, strings.ToLower(m[1]))
}

// guardLinks neutralizes markdown and raw HTML link targets that fail SafeURL.
// Inline links go first so an angle-bracket destination is read as part of its link.
func guardLinks(markdown string) string {
	markdown = inlineLink.ReplaceAllStringFunc(markdown, func(m string) string {
		parts := inlineLink.FindStringSubmatch(m)
		if SafeURL(parts[3]) {
			return m
		}
		return parts[2]
	})

	markdown = linkDefinition.ReplaceAllStringFunc(markdown, func(m string) string {
		if SafeURL(linkDefinition.FindStringSubmatch(m)[1]) {
			return m
		}
		return ""
	})

	markdown = autolink.ReplaceAllStringFunc(markdown, func(m string) string {
		if SafeURL(autolink.FindStringSubmatch(m)[1]) {
			return m
		}
		return ""
	})

	return rawTag.ReplaceAllStringFunc(markdown, func(tag string) string {
		return urlAttr.ReplaceAllStringFunc(tag, func(attr string) string {
			parts := urlAttr.FindStringSubmatch(attr)
			if SafeURL(parts[1] + parts[2] + parts[3]) {
				return attr
			}
			return ""
		})
	})
}
