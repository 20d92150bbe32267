// ABOUTME: Response DTOs for reading and navigation session endpoints
// ABOUTME: Wraps processed documents and session state for the front end

package responses

import "studyflow-api/core/domain"

// ReadingResponse is a processed document plus the fetch error that produced
// an unavailable document, if any
type ReadingResponse struct {
	domain.ProcessedDocument
	Error string `json:"error,omitempty" doc:"Why the content is unavailable"`
}

// SessionResponse is the navigation session after an operation
type SessionResponse struct {
	Session     *domain.Session `json:"session"`
	LeftReading bool            `json:"leftReading" doc:"Back was pressed on the first page; the viewer should close the reading"`
	CanGoBack   bool            `json:"canGoBack"`
}

// NewSessionResponse builds the response for a session
func NewSessionResponse(session *domain.Session, leftReading bool) SessionResponse {
	return SessionResponse{
		Session:     session,
		LeftReading: leftReading,
		CanGoBack:   session != nil && len(session.Navigation.History) > 1,
	}
}
