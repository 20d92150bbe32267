// ABOUTME: Rewrites anchors in sanitized HTML so the viewer can intercept them
// ABOUTME: Fragment links are left alone and keep native same-page behavior

package navigation

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// InternalAttr marks anchors the viewer should open in place
const InternalAttr = "data-navigate"

// RewriteLinks resolves every navigable anchor against currentURL and tags it
// for in-app navigation. Unparseable HTML is returned unchanged.
func RewriteLinks(html, currentURL string) string {
	if strings.TrimSpace(html) == "" {
		return html
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	changed := false
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if IsFragment(href) {
			return
		}
		absolute := Resolve(href, currentURL)
		if !Navigable(absolute) {
			return
		}
		a.SetAttr("href", absolute)
		a.SetAttr(InternalAttr, "internal")
		changed = true
	})

	if !changed {
		return html
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return html
	}
	return out
}
