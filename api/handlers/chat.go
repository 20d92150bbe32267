// ABOUTME: Tutor chat handler for the Huma API
// ABOUTME: Streams assistant replies to the browser as server-sent events

package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"studyflow-api/api/dto/requests"
	"studyflow-api/api/dto/responses"
	"studyflow-api/core/domain"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
)

// ConversationService runs tutor conversations
type ConversationService interface {
	Start(ctx context.Context, readingTitle, readingContent string) (*domain.Conversation, error)
	Get(ctx context.Context, id string) (*domain.Conversation, error)
	Send(ctx context.Context, id, input string, onDelta func(messageID, delta string)) (*domain.ChatMessage, error)
}

// SessionReader looks up navigation sessions
type SessionReader interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
}

// ChatHandler handles tutor conversation requests
type ChatHandler struct {
	conversations ConversationService
	sessions      SessionReader
}

// NewChatHandler creates a new chat handler. sessions may be nil, which
// disables taking reading text from a session.
func NewChatHandler(conversations ConversationService, sessions SessionReader) *ChatHandler {
	return &ChatHandler{conversations: conversations, sessions: sessions}
}

// RegisterRoutes registers all chat routes
func (h *ChatHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "startConversation",
		Method:        http.MethodPost,
		Path:          "/conversations",
		Summary:       "Start a tutor conversation",
		Description:   "Opens a conversation about a reading, seeded with a welcome message",
		Tags:          []string{"Chat"},
		DefaultStatus: http.StatusCreated,
	}, h.Start)

	huma.Register(api, huma.Operation{
		OperationID: "getConversation",
		Method:      http.MethodGet,
		Path:        "/conversations/{id}",
		Summary:     "Get a tutor conversation",
		Tags:        []string{"Chat"},
	}, h.Get)

	sse.Register(api, huma.Operation{
		OperationID: "sendMessage",
		Method:      http.MethodPost,
		Path:        "/conversations/{id}/messages",
		Summary:     "Send a message",
		Description: "Adds the learner's message and streams the reply: delta events addressed to one assistant message, then a message event, or an error event.",
		Tags:        []string{"Chat"},
	}, map[string]any{
		"delta":   responses.DeltaEvent{},
		"message": responses.MessageEvent{},
		"error":   responses.ErrorEvent{},
	}, h.Send)
}

// StartConversationInput defines the input for the Start operation
type StartConversationInput struct {
	Body requests.StartConversationRequest
}

// ConversationIDInput identifies a conversation
type ConversationIDInput struct {
	ID string `path:"id" doc:"Conversation ID"`
}

// ConversationOutput wraps a conversation response
type ConversationOutput struct {
	Body responses.ConversationResponse
}

// SendMessageInput defines the input for the Send operation
type SendMessageInput struct {
	ID   string `path:"id" doc:"Conversation ID"`
	Body requests.SendMessageRequest
}

// Start opens a conversation
func (h *ChatHandler) Start(ctx context.Context, input *StartConversationInput) (*ConversationOutput, error) {
	content := strings.TrimSpace(input.Body.ReadingContent)
	if content == "" && input.Body.SessionID != "" && h.sessions != nil {
		session, err := h.sessions.Get(ctx, input.Body.SessionID)
		if err != nil {
			return nil, toHumaError(err)
		}
		content = documentText(session.Document)
	}

	conv, err := h.conversations.Start(ctx, input.Body.ReadingTitle, content)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ConversationOutput{Body: responses.NewConversationResponse(conv)}, nil
}

// Get returns a conversation
func (h *ChatHandler) Get(ctx context.Context, input *ConversationIDInput) (*ConversationOutput, error) {
	conv, err := h.conversations.Get(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ConversationOutput{Body: responses.NewConversationResponse(conv)}, nil
}

// Send streams the reply to one learner message
func (h *ChatHandler) Send(ctx context.Context, input *SendMessageInput, send sse.Sender) {
	msg, err := h.conversations.Send(ctx, input.ID, input.Body.Content, func(messageID, delta string) {
		_ = send.Data(responses.DeltaEvent{MessageID: messageID, Delta: delta})
	})
	if err != nil {
		_ = send.Data(errorEvent(err))
		return
	}
	_ = send.Data(responses.MessageEvent{Message: *msg})
}

// errorEvent carries the same status and message a plain request would get
func errorEvent(err error) responses.ErrorEvent {
	var model *huma.ErrorModel
	if stderrors.As(toHumaError(err), &model) {
		return responses.ErrorEvent{Status: model.Status, Message: model.Detail}
	}
	return responses.ErrorEvent{Status: statusOf(err), Message: "Internal server error"}
}
