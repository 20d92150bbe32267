// ABOUTME: URL resolution for links found in scraped content
// ABOUTME: Relative links resolve against the origin of the page they appear on

package navigation

import (
	"net/url"
	"strings"
)

// Resolve returns href as an absolute URL. Hrefs that already carry a scheme
// are returned unchanged; anything else resolves against currentURL's origin.
// Malformed input yields href unchanged.
func Resolve(href, currentURL string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}

	base, err := url.Parse(currentURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return href
	}

	origin := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	return origin.ResolveReference(ref).String()
}

// IsFragment reports whether href only points inside the current page
func IsFragment(href string) bool {
	return strings.HasPrefix(strings.TrimSpace(href), "#")
}

// Navigable reports whether an absolute URL can be loaded in the viewer
func Navigable(absolute string) bool {
	u, err := url.Parse(absolute)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
