// ABOUTME: Conversation service for the AI tutor attached to a reading
// ABOUTME: Streams each reply into a single assistant message created before streaming

package chat

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"

	"github.com/google/uuid"
)

var (
	// ErrRateLimited marks replies refused because the chat service is throttling
	ErrRateLimited = stderrors.New("too many requests, please wait a moment and try again")

	// ErrCreditsExhausted marks replies refused because the AI account ran out of credits
	ErrCreditsExhausted = stderrors.New("AI credits exhausted, please add funds to continue")
)

const welcomeFormat = `Hi! I'm here to help you understand "%s". Feel free to ask me any questions about the content, request summaries, or ask me to explain concepts in simpler terms.`

// Service manages tutor conversations
type Service struct {
	streamer interfaces.ChatStreamer
	store    interfaces.ConversationStorage
	logger   interfaces.Logger
	timeout  time.Duration
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewService creates a conversation service. timeout bounds each reply; zero disables it.
func NewService(streamer interfaces.ChatStreamer, store interfaces.ConversationStorage, logger interfaces.Logger, timeout time.Duration) *Service {
	return &Service{
		streamer: streamer,
		store:    store,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
		inFlight: make(map[string]bool),
	}
}

// Start opens a conversation about a reading, seeded with a welcome message
func (s *Service) Start(ctx context.Context, readingTitle, readingContent string) (*domain.Conversation, error) {
	readingTitle = strings.TrimSpace(readingTitle)
	if readingTitle == "" {
		return nil, &errors.ValidationError{Field: "readingTitle", Message: "reading title is required"}
	}

	now := s.now()
	conv := &domain.Conversation{
		ID:             uuid.New().String(),
		ReadingTitle:   readingTitle,
		ReadingContent: readingContent,
		CreatedAt:      now,
		Messages: []domain.ChatMessage{{
			ID:        uuid.New().String(),
			Role:      domain.RoleAssistant,
			Content:   fmt.Sprintf(welcomeFormat, readingTitle),
			Timestamp: now,
		}},
	}

	if err := s.store.Save(ctx, conv); err != nil {
		return nil, errors.WrapError(err, "failed to save conversation")
	}
	return conv, nil
}

// Get returns a conversation by ID
func (s *Service) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.store.Get(ctx, id)
}

// Send adds the learner's message and streams the reply. onDelta receives the
// assistant message ID with every chunk. Only one reply per conversation can
// stream at a time.
func (s *Service) Send(ctx context.Context, id, input string, onDelta func(messageID, delta string)) (*domain.ChatMessage, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &errors.ValidationError{Field: "content", Message: "message cannot be empty"}
	}

	if !s.acquire(id) {
		return nil, &errors.ConflictError{Resource: "conversation", Message: "a reply is already streaming"}
	}
	defer s.release(id)

	conv, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	conv.Messages = append(conv.Messages, domain.ChatMessage{
		ID:        uuid.New().String(),
		Role:      domain.RoleUser,
		Content:   input,
		Timestamp: s.now(),
	})
	req := interfaces.ChatRequest{
		Messages:       history(conv.Messages),
		ReadingTitle:   conv.ReadingTitle,
		ReadingContent: conv.ReadingContent,
	}

	assistant := domain.ChatMessage{
		ID:        uuid.New().String(),
		Role:      domain.RoleAssistant,
		Timestamp: s.now(),
	}
	conv.Messages = append(conv.Messages, assistant)
	if err := s.store.Save(ctx, conv); err != nil {
		return nil, errors.WrapError(err, "failed to save conversation")
	}
	last := len(conv.Messages) - 1

	streamCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		streamCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, streamErr := s.streamer.Stream(streamCtx, req, func(delta string) {
		if onDelta != nil {
			onDelta(assistant.ID, delta)
		}
	})

	// persist with a context that survives a disconnected client
	saveCtx := context.WithoutCancel(ctx)

	if streamErr == nil && reply == "" {
		streamErr = stderrors.New("empty reply from chat service")
	}
	if streamErr != nil {
		conv.Messages = withoutEmpty(conv.Messages)
		if err := s.store.Save(saveCtx, conv); err != nil {
			s.logger.Error("Failed to save conversation after chat error", map[string]interface{}{
				"conversation_id": id,
				"error":           err.Error(),
			})
		}
		s.logger.Warn("Chat reply failed", map[string]interface{}{
			"conversation_id": id,
			"error":           streamErr.Error(),
		})
		return nil, classify(streamErr)
	}

	conv.Messages[last].Content = reply
	if err := s.store.Save(saveCtx, conv); err != nil {
		return nil, errors.WrapError(err, "failed to save conversation")
	}

	msg := conv.Messages[last]
	return &msg, nil
}

func (s *Service) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		return false
	}
	s.inFlight[id] = true
	return true
}

func (s *Service) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

func history(messages []domain.ChatMessage) []interfaces.ChatTurn {
	turns := make([]interfaces.ChatTurn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, interfaces.ChatTurn{Role: string(m.Role), Content: m.Content})
	}
	return turns
}

func withoutEmpty(messages []domain.ChatMessage) []domain.ChatMessage {
	kept := messages[:0]
	for _, m := range messages {
		if m.Content != "" {
			kept = append(kept, m)
		}
	}
	return kept
}

// classify maps collaborator failures onto the errors learners are shown
func classify(err error) error {
	var apiErr *errors.ExternalAPIError
	if stderrors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message)
		switch {
		case apiErr.StatusCode == 429 || strings.Contains(msg, "rate limit"):
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		case apiErr.StatusCode == 402 || strings.Contains(msg, "credits"):
			return fmt.Errorf("%w: %w", ErrCreditsExhausted, err)
		}
	}
	return err
}
