// ABOUTME: Request DTOs for highlight endpoints
// ABOUTME: Validation tags mirror the checks in core/highlight

package requests

import "studyflow-api/core/domain"

// CreateHighlightRequest records a learner's text selection
type CreateHighlightRequest struct {
	Text      string                `json:"text" minLength:"1" maxLength:"2000" example:"neural networks" doc:"Selected text, matched literally when the reading is rendered"`
	Color     domain.HighlightColor `json:"color,omitempty" enum:"yellow,green,blue,pink" default:"yellow" doc:"Highlight color"`
	WeekID    string                `json:"weekId,omitempty" doc:"Course week the reading belongs to"`
	ReadingID string                `json:"readingId" minLength:"1" doc:"Reading the highlight annotates"`
}
