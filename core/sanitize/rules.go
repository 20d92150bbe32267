// ABOUTME: Named, ordered regex rule tables for boilerplate removal and script guarding
// ABOUTME: Each rule can be tested and extended without touching the pipeline

package sanitize

import "regexp"

// Rule is a single named rewrite applied to content
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// RuleSet is an ordered list of rules; later rules see the output of earlier ones
type RuleSet []Rule

// Apply runs every rule in order
func (rs RuleSet) Apply(content string) string {
	for _, r := range rs {
		content = r.Pattern.ReplaceAllString(content, r.Replacement)
	}
	return content
}

// ApplyUntilStable repeats the rule set until the content stops changing.
// Only meaningful for deletion-only rule sets, which always terminate.
func (rs RuleSet) ApplyUntilStable(content string) string {
	for {
		next := rs.Apply(content)
		if next == content {
			return next
		}
		content = next
	}
}

// Rule returns the named rule, if present
func (rs RuleSet) Rule(name string) (Rule, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

func rule(name, pattern, replacement string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// MarkdownBoilerplate strips promotional, navigational and metadata noise from
// scraped markdown. Removed spans are replaced by a paragraph break.
var MarkdownBoilerplate = RuleSet{
	rule("promo-rocket-enroll", `(?i)🚀[^\n]*enroll[^\n]*→?\n*`, "\n\n"),
	rule("promo-target-course", `(?i)🎯[^\n]*(?:enroll|course|discount)[^\n]*\n*`, "\n\n"),
	rule("discount-code", `(?i)Use \*?\*?[A-Z0-9]+\*?\*? for \d+% off[^\n]*\n*`, "\n\n"),
	rule("master-building-cta", `(?i)Master building[^\n]*Enroll now[^\n]*→?\n*`, "\n\n"),
	rule("enroll-now", `(?i)Enroll now →?\n*`, "\n\n"),
	rule("copy-page", `(?i)Copy page\n*`, "\n\n"),
	rule("sponsored-by", `(?i)Sponsored by[^\n]*\n*`, "\n\n"),
	rule("related-learning", `(?is)Related Learning.*?(\n\n[A-Z#]|\z)`, "\n\n${1}"),
	rule("course-browse-academy", `(?is)Course\\.*?Browse Academy\n*`, "\n\n"),
	rule("explore-all-courses", `(?is)Explore All Courses.*?Browse Academy\n*`, "\n\n"),
	rule("guide-breadcrumb", `(?i)\A\[Prompt Engineering Guide\][^\n]*\n*`, "\n\n"),
	rule("last-updated", `(?i)(?:Last updated(?: on)?|Updated on)[^\n]*\n*`, "\n\n"),
	rule("ctrl-k", "`CTRL K`\\n*", "\n\n"),
	rule("video-link", `(?i)\[[^\]\n]*\]\(https?://(?:www\.)?(?:youtube|youtu\.be|vimeo|dailymotion)[^)]+\)`, "\n\n"),
	rule("iframe", `(?is)<iframe[^>]*>.*?</iframe>`, "\n\n"),
	rule("video", `(?is)<video[^>]*>.*?</video>`, "\n\n"),
	rule("blank-runs", `\n{4,}`, "\n\n"),
}

// MarkdownStructure restores paragraph, list and header breaks that scraping
// squashed together. It runs after boilerplate removal.
var MarkdownStructure = RuleSet{
	rule("collapse-blank-lines", `\n{3,}`, "\n\n"),
	rule("sentence-paragraphs", `([.!?])\n([A-Z])`, "${1}\n\n${2}"),
	rule("list-spacing", `([^\n])\n([-*•])`, "${1}\n\n${2}"),
	rule("header-spacing", `([^\n])\n(#{1,6}\s)`, "${1}\n\n${2}"),
}

// HTMLBoilerplate strips promotional and video elements from scraped HTML
var HTMLBoilerplate = RuleSet{
	rule("promo-class-element", `(?is)<[^>]*class="[^"]*(?:promo|banner|ad-|ads-|advertisement|sponsor|newsletter|subscribe|cta|enrollment)[^"]*"[^>]*>.*?</[^>]+>`, ""),
	rule("promo-rocket-enroll", `(?i)🚀[^<]*enroll[^<]*→?`, ""),
	rule("master-building-cta", `(?i)Master building[^<]*Enroll now[^<]*→?`, ""),
	rule("discount-code", `(?i)Use [A-Z0-9]+ for \d+% off[^<]*`, ""),
	rule("last-updated", `(?i)Last updated(?: on)?[^<]*`, ""),
	rule("video-iframe", `(?is)<iframe[^>]*(?:youtube|vimeo|dailymotion)[^>]*>.*?</iframe>`, ""),
	rule("video", `(?is)<video[^>]*>.*?</video>`, ""),
	rule("sponsored-by", `(?i)Sponsored by[^<]*`, ""),
}

// openTag matches the start of a tag up to the current attribute, skipping
// quoted values so a ">" inside quotes does not end the tag
const openTag = `<[A-Za-z/][^>"']*(?:(?:"[^"]*"|'[^']*')[^>"']*)*?`

// ScriptGuard deletes script-executing constructs. Event handlers are only
// removed inside tags. It is applied to every output until stable, so nested tricks like "<scr<scriptipt" cannot survive.
var ScriptGuard = RuleSet{
	rule("script-block", `(?is)<\s*script\b.*?<\s*/\s*script\s*>`, ""),
	rule("script-tag", `(?i)<\s*/?\s*script`, ""),
	rule("known-event-handler", `(?i)(`+openTag+`)on(?:error|load|unload|click|dblclick|mouse[a-z]*|focus[a-z]*|blur|submit|change|input|key[a-z]*|animation[a-z]*|transition[a-z]*|begin|toggle|pointer[a-z]*|wheel|drag[a-z]*|drop|play|pause|scroll|resize)\s*=`, "${1}"),
	rule("event-handler", `(?i)(`+openTag+`)\bon[a-z]+\s*=`, "${1}"),
	rule("script-uri", `(?i)(?:java|vb|live)\s*script\s*:`, ""),
	rule("html-data-uri", `(?i)data\s*:\s*text/html`, ""),
}
