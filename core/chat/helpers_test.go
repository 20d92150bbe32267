package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"studyflow-api/core/domain"
	coreerrors "studyflow-api/core/errors"
	"studyflow-api/core/interfaces"
)

type testHTTPClient struct{}

func (testHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return do(req)
}

func (testHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req)
}

func do(req *http.Request) (interfaces.Response, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	return testResponse{resp}, nil
}

type testResponse struct{ resp *http.Response }

func (r testResponse) StatusCode() int          { return r.resp.StatusCode }
func (r testResponse) Body() io.ReadCloser      { return r.resp.Body }
func (r testResponse) Header(key string) string { return r.resp.Header.Get(key) }

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type memoryStore struct {
	mu    sync.Mutex
	convs map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{convs: map[string][]byte{}}
}

func (m *memoryStore) Save(_ context.Context, c *domain.Conversation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs[c.ID] = data
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.convs[id]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "conversation", ID: id}
	}
	var c domain.Conversation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
