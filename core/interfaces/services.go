// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for the content collaborators used by the reading pipeline

package interfaces

import (
	"context"

	"studyflow-api/core/domain"
)

// ContentFetcher turns a URL into raw scraped content.
// Implementations are the scrape service, the proxy service and the local extractor.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.ScrapedDocument, error)
}

// ChatStreamer streams an assistant reply for a conversation.
// onDelta is called for every content chunk, in the order received.
type ChatStreamer interface {
	Stream(ctx context.Context, req ChatRequest, onDelta func(delta string)) (string, error)
}

// ChatRequest is the payload sent to the chat collaborator
type ChatRequest struct {
	Messages       []ChatTurn `json:"messages"`
	ReadingTitle   string     `json:"readingTitle,omitempty"`
	ReadingContent string     `json:"readingContent,omitempty"`
}

// ChatTurn is one message of the history sent to the chat collaborator
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
