// ABOUTME: Response DTOs for tutor conversations and their event stream
// ABOUTME: Defines the delta, message and error events of a streamed reply

package responses

import (
	"time"

	"studyflow-api/core/domain"
)

// ConversationResponse is a conversation without the reading text it carries
type ConversationResponse struct {
	ID           string               `json:"id"`
	ReadingTitle string               `json:"readingTitle"`
	Messages     []domain.ChatMessage `json:"messages"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// NewConversationResponse maps a conversation to its response
func NewConversationResponse(conv *domain.Conversation) ConversationResponse {
	messages := conv.Messages
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return ConversationResponse{
		ID:           conv.ID,
		ReadingTitle: conv.ReadingTitle,
		Messages:     messages,
		CreatedAt:    conv.CreatedAt,
	}
}

// DeltaEvent carries one streamed chunk of the assistant message
type DeltaEvent struct {
	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

// MessageEvent carries the completed assistant message
type MessageEvent struct {
	Message domain.ChatMessage `json:"message"`
}

// ErrorEvent ends a stream that failed
type ErrorEvent struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
