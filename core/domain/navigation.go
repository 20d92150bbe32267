// ABOUTME: Domain models for in-app navigation between scraped pages
// ABOUTME: Defines the navigation stack and the per-URL loading state machine

package domain

import "time"

// LoadState is the state of the page currently shown in a session
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateLoaded  LoadState = "loaded"
	StateError   LoadState = "error"
)

// NavigationState is a simple stack of visited URLs.
// The first entry is the reading's source URL.
type NavigationState struct {
	CurrentURL string   `json:"currentUrl"`
	History    []string `json:"history"`
}

// Session tracks one learner's navigation inside a reading
type Session struct {
	ID         string             `json:"id"`
	ReadingID  string             `json:"readingId,omitempty"`
	Navigation NavigationState    `json:"navigation"`
	State      LoadState          `json:"state"`
	Generation int                `json:"generation"`
	Document   *ProcessedDocument `json:"document,omitempty"`
	Error      string             `json:"error,omitempty"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
