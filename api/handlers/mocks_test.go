package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"
	"studyflow-api/infrastructure/cache/memory"
	"studyflow-api/infrastructure/storage/cachestore"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// loaderFunc adapts a function to navigation.DocumentLoader
type loaderFunc func(ctx context.Context, url, readingID string) (*domain.ProcessedDocument, error)

func (f loaderFunc) Load(ctx context.Context, url, readingID string) (*domain.ProcessedDocument, error) {
	return f(ctx, url, readingID)
}

func readyDoc(url string) *domain.ProcessedDocument {
	return &domain.ProcessedDocument{
		Status:     domain.DocumentReady,
		SourceURL:  url,
		Title:      "Page " + url,
		HTML:       "<p>Body of " + url + "</p>",
		Text:       "Body of " + url,
		TopicLinks: []domain.TopicLink{},
	}
}

// mockHighlightStore keeps highlights in memory
type mockHighlightStore struct {
	mu    sync.Mutex
	items map[string]domain.Highlight
	err   error
}

func newMockHighlightStore() *mockHighlightStore {
	return &mockHighlightStore{items: make(map[string]domain.Highlight)}
}

func (m *mockHighlightStore) Save(ctx context.Context, h *domain.Highlight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items[h.ID] = *h
	return nil
}

func (m *mockHighlightStore) ListByReading(ctx context.Context, readingID string) ([]domain.Highlight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Highlight
	for _, h := range m.items {
		if h.ReadingID == readingID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockHighlightStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return &errors.NotFoundError{Resource: "highlight", ID: id}
	}
	delete(m.items, id)
	return nil
}

// mockStreamer replays canned chunks and records the last request
type mockStreamer struct {
	mu     sync.Mutex
	chunks []string
	err    error
	last   interfaces.ChatRequest
}

func (m *mockStreamer) Stream(ctx context.Context, req interfaces.ChatRequest, onDelta func(string)) (string, error) {
	m.mu.Lock()
	m.last = req
	m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	reply := ""
	for _, c := range m.chunks {
		onDelta(c)
		reply += c
	}
	return reply, nil
}

func (m *mockStreamer) lastRequest() interfaces.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func newSessionStore() interfaces.SessionStorage {
	return cachestore.NewSessionStore(memory.NewMemoryCache(), time.Hour)
}

func newConversationStore() interfaces.ConversationStorage {
	return cachestore.NewConversationStore(memory.NewMemoryCache(), time.Hour)
}
