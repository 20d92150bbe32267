package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"studyflow-api/api/dto/responses"
	"studyflow-api/core/chat"
	"studyflow-api/core/domain"
	"studyflow-api/core/errors"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions map[string]*domain.Session

func (s stubSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	if session, ok := s[id]; ok {
		return session, nil
	}
	return nil, &errors.NotFoundError{Resource: "session", ID: id}
}

func newChatAPI(t *testing.T, streamer *mockStreamer, sessions SessionReader) humatest.TestAPI {
	service := chat.NewService(streamer, newConversationStore(), nopLogger{}, time.Second)
	_, api := humatest.New(t)
	NewChatHandler(service, sessions).RegisterRoutes(api)
	return api
}

func startConversation(t *testing.T, api humatest.TestAPI, body map[string]any) responses.ConversationResponse {
	t.Helper()
	resp := api.Post("/conversations", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var conv responses.ConversationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &conv))
	return conv
}

func TestChatHandler_StartAndGet(t *testing.T) {
	api := newChatAPI(t, &mockStreamer{}, nil)

	conv := startConversation(t, api, map[string]any{
		"readingTitle":   "Chain-of-Thought Prompting",
		"readingContent": "secret reading body",
	})
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, domain.RoleAssistant, conv.Messages[0].Role)
	assert.Contains(t, conv.Messages[0].Content, `"Chain-of-Thought Prompting"`)

	resp := api.Get("/conversations/" + conv.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "secret reading body")

	resp = api.Get("/conversations/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestChatHandler_Start_ReadingTextFromSession(t *testing.T) {
	streamer := &mockStreamer{chunks: []string{"ok"}}
	sessions := stubSessions{"s1": {ID: "s1", Document: readyDoc("https://example.com/cot")}}
	api := newChatAPI(t, streamer, sessions)

	conv := startConversation(t, api, map[string]any{"readingTitle": "CoT", "sessionId": "s1"})

	resp := api.Post("/conversations/"+conv.ID+"/messages", map[string]any{"content": "summarize"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Body of https://example.com/cot", streamer.lastRequest().ReadingContent)

	resp = api.Post("/conversations", map[string]any{"readingTitle": "CoT", "sessionId": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestChatHandler_Send_StreamsDeltasThenMessage(t *testing.T) {
	api := newChatAPI(t, &mockStreamer{chunks: []string{"Chain of thought ", "asks for steps."}}, nil)
	conv := startConversation(t, api, map[string]any{"readingTitle": "CoT"})

	resp := api.Post("/conversations/"+conv.ID+"/messages", map[string]any{"content": "  what is it?  "})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/event-stream")

	body := resp.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: delta"))
	assert.Contains(t, body, `"delta":"Chain of thought "`)
	assert.Contains(t, body, `"content":"Chain of thought asks for steps."`)
	assert.NotContains(t, body, "event: error")
	// deltas precede the final message
	assert.Less(t, strings.LastIndex(body, "event: delta"), strings.Index(body, `"message":`))

	resp = api.Get("/conversations/" + conv.ID)
	var stored responses.ConversationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stored))
	require.Len(t, stored.Messages, 3)
	assert.Equal(t, "what is it?", stored.Messages[1].Content)
	assert.Equal(t, "Chain of thought asks for steps.", stored.Messages[2].Content)
}

func TestChatHandler_Send_ErrorEvents(t *testing.T) {
	streamer := &mockStreamer{err: &errors.ExternalAPIError{API: "chat", StatusCode: 429, Message: "slow down"}}
	api := newChatAPI(t, streamer, nil)
	conv := startConversation(t, api, map[string]any{"readingTitle": "CoT"})

	resp := api.Post("/conversations/"+conv.ID+"/messages", map[string]any{"content": "hi"})
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "event: error")
	assert.Contains(t, body, `"status":429`)

	resp = api.Get("/conversations/" + conv.ID)
	var stored responses.ConversationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stored))
	// the empty assistant placeholder is gone, the learner message stays
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, domain.RoleUser, stored.Messages[1].Role)

	resp = api.Post("/conversations/missing/messages", map[string]any{"content": "hi"})
	assert.Contains(t, resp.Body.String(), `"status":404`)

	resp = api.Post("/conversations/"+conv.ID+"/messages", map[string]any{"content": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
