// ABOUTME: Request DTOs for tutor conversation endpoints
// ABOUTME: Defines conversation start and learner message payloads

package requests

// StartConversationRequest opens a tutor conversation about a reading
type StartConversationRequest struct {
	ReadingTitle   string `json:"readingTitle" minLength:"1" example:"Chain-of-Thought Prompting" doc:"Title shown in the welcome message and sent as context"`
	ReadingContent string `json:"readingContent,omitempty" doc:"Reading text sent to the tutor as context"`
	SessionID      string `json:"sessionId,omitempty" doc:"Navigation session whose loaded page supplies the reading text when readingContent is empty"`
}

// SendMessageRequest is one learner message
type SendMessageRequest struct {
	Content string `json:"content" minLength:"1" maxLength:"8000" example:"Can you summarize this in simpler terms?"`
}
