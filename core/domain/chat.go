// ABOUTME: Domain models for the AI tutor conversation
// ABOUTME: Messages are addressed by ID so streamed updates land on one message

package domain

import "time"

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a chat about one reading
type Conversation struct {
	ID             string        `json:"id"`
	ReadingTitle   string        `json:"readingTitle,omitempty"`
	ReadingContent string        `json:"readingContent,omitempty"`
	Messages       []ChatMessage `json:"messages"`
	CreatedAt      time.Time     `json:"createdAt"`
}
