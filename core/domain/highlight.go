// ABOUTME: Domain models for learner highlights on a reading
// ABOUTME: Defines the highlight colors and the record re-applied to fetched content

package domain

import "time"

// HighlightColor is one of the palette colors a learner can pick
type HighlightColor string

const (
	HighlightYellow HighlightColor = "yellow"
	HighlightGreen  HighlightColor = "green"
	HighlightBlue   HighlightColor = "blue"
	HighlightPink   HighlightColor = "pink"
)

// highlightBackgrounds maps palette colors to their mark background
var highlightBackgrounds = map[HighlightColor]string{
	HighlightYellow: "#fef08a",
	HighlightGreen:  "#bbf7d0",
	HighlightBlue:   "#bfdbfe",
	HighlightPink:   "#fbcfe8",
}

// Valid reports whether the color is part of the palette
func (c HighlightColor) Valid() bool {
	_, ok := highlightBackgrounds[c]
	return ok
}

// Background returns the CSS background color for the mark element.
// Unknown colors fall back to yellow.
func (c HighlightColor) Background() string {
	if bg, ok := highlightBackgrounds[c]; ok {
		return bg
	}
	return highlightBackgrounds[HighlightYellow]
}

// Highlight is a learner-selected passage of a reading.
// Highlights are immutable once created and are matched against content by text.
type Highlight struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Color     HighlightColor `json:"color"`
	WeekID    string         `json:"weekId"`
	ReadingID string         `json:"readingId"`
	CreatedAt time.Time      `json:"createdAt"`
}
