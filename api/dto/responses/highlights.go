// ABOUTME: Response DTOs for highlight endpoints
// ABOUTME: Defines the per-reading highlight listing

package responses

import "studyflow-api/core/domain"

// HighlightListResponse lists a reading's highlights in creation order
type HighlightListResponse struct {
	ReadingID  string             `json:"readingId"`
	Highlights []domain.Highlight `json:"highlights"`
}
