// ABOUTME: Storage interfaces for persisting domain entities
// ABOUTME: Defines contracts for highlight, session and conversation persistence

package interfaces

import (
	"context"

	"studyflow-api/core/domain"
)

// HighlightStorage defines the interface for highlight persistence
type HighlightStorage interface {
	// Save persists a highlight
	Save(ctx context.Context, highlight *domain.Highlight) error

	// ListByReading returns the highlights of a reading in creation order
	ListByReading(ctx context.Context, readingID string) ([]domain.Highlight, error)

	// Delete removes a highlight by ID
	Delete(ctx context.Context, id string) error
}

// SessionStorage defines the interface for navigation session persistence
type SessionStorage interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
}

// ConversationStorage defines the interface for chat conversation persistence
type ConversationStorage interface {
	Save(ctx context.Context, conversation *domain.Conversation) error
	Get(ctx context.Context, id string) (*domain.Conversation, error)
}
