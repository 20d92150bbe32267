package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"studyflow-api/core/domain"
	coreerrors "studyflow-api/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[string][]byte{}}
}

func (m *memoryStore) Save(_ context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[id]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "session", ID: id}
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type loaderFunc func(ctx context.Context, url, readingID string) (*domain.ProcessedDocument, error)

func (f loaderFunc) Load(ctx context.Context, url, readingID string) (*domain.ProcessedDocument, error) {
	return f(ctx, url, readingID)
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func okLoader() loaderFunc {
	return func(_ context.Context, url, _ string) (*domain.ProcessedDocument, error) {
		return &domain.ProcessedDocument{Status: domain.DocumentReady, SourceURL: url, Title: url, TopicLinks: []domain.TopicLink{}}, nil
	}
}

func TestNavigator_StartAndNavigate(t *testing.T) {
	ctx := context.Background()
	n := NewNavigator(okLoader(), newMemoryStore(), nopLogger{}, time.Second)

	s, err := n.Start(ctx, "https://example.com/guide", "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateLoaded, s.State)
	assert.Equal(t, []string{"https://example.com/guide"}, s.Navigation.History)
	assert.Equal(t, "r1", s.ReadingID)

	s, err = n.Navigate(ctx, s.ID, "/docs/cot")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs/cot", s.Navigation.CurrentURL)
	assert.Equal(t, []string{"https://example.com/guide", "https://example.com/docs/cot"}, s.Navigation.History)
	assert.Equal(t, domain.StateLoaded, s.State)
	require.NotNil(t, s.Document)
	assert.Equal(t, "https://example.com/docs/cot", s.Document.SourceURL)
}

func TestNavigator_StartRejectsRelativeURL(t *testing.T) {
	n := NewNavigator(okLoader(), newMemoryStore(), nopLogger{}, 0)

	_, err := n.Start(context.Background(), "/relative", "")
	assert.True(t, coreerrors.IsValidation(err))
}

func TestNavigator_FragmentRejected(t *testing.T) {
	ctx := context.Background()
	n := NewNavigator(okLoader(), newMemoryStore(), nopLogger{}, 0)
	s, err := n.Start(ctx, "https://example.com/guide", "")
	require.NoError(t, err)

	_, err = n.Navigate(ctx, s.ID, "#section")
	assert.True(t, coreerrors.IsValidation(err))
}

func TestNavigator_GoBack(t *testing.T) {
	ctx := context.Background()
	n := NewNavigator(okLoader(), newMemoryStore(), nopLogger{}, 0)
	s, err := n.Start(ctx, "https://example.com/guide", "")
	require.NoError(t, err)
	_, err = n.Navigate(ctx, s.ID, "https://example.com/next")
	require.NoError(t, err)

	s, left, err := n.GoBack(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, left)
	assert.Equal(t, "https://example.com/guide", s.Navigation.CurrentURL)
	assert.Len(t, s.Navigation.History, 1)
	assert.Equal(t, domain.StateLoaded, s.State)

	s, left, err = n.GoBack(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, left)
	assert.Len(t, s.Navigation.History, 1)
}

func TestNavigator_LoadFailureIsErrorState(t *testing.T) {
	ctx := context.Background()
	loader := loaderFunc(func(context.Context, string, string) (*domain.ProcessedDocument, error) {
		return nil, errors.New("scrape failed")
	})
	n := NewNavigator(loader, newMemoryStore(), nopLogger{}, 0)

	s, err := n.Start(ctx, "https://example.com/guide", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateError, s.State)
	assert.Equal(t, "scrape failed", s.Error)
	require.NotNil(t, s.Document)
	assert.Equal(t, domain.DocumentUnavailable, s.Document.Status)
	assert.Equal(t, "https://example.com/guide", s.Document.SourceURL)
}

func TestNavigator_UnavailableContentIsErrorState(t *testing.T) {
	loader := loaderFunc(func(_ context.Context, url, _ string) (*domain.ProcessedDocument, error) {
		return &domain.ProcessedDocument{Status: domain.DocumentUnavailable, SourceURL: url}, nil
	})
	n := NewNavigator(loader, newMemoryStore(), nopLogger{}, 0)

	s, err := n.Start(context.Background(), "https://example.com/empty", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateError, s.State)
	assert.Contains(t, s.Error, "content unavailable")
}

func TestNavigator_RetryByNavigatingToCurrentURL(t *testing.T) {
	ctx := context.Background()
	calls := 0
	loader := loaderFunc(func(_ context.Context, url, _ string) (*domain.ProcessedDocument, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("temporary")
		}
		return &domain.ProcessedDocument{Status: domain.DocumentReady, SourceURL: url}, nil
	})
	n := NewNavigator(loader, newMemoryStore(), nopLogger{}, 0)

	s, err := n.Start(ctx, "https://example.com/guide", "")
	require.NoError(t, err)
	require.Equal(t, domain.StateError, s.State)

	s, err = n.Navigate(ctx, s.ID, "https://example.com/guide")
	require.NoError(t, err)
	assert.Equal(t, domain.StateLoaded, s.State)
	assert.Len(t, s.Navigation.History, 1)
	assert.Empty(t, s.Error)
}

func TestNavigator_Timeout(t *testing.T) {
	loader := loaderFunc(func(ctx context.Context, _ string, _ string) (*domain.ProcessedDocument, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	n := NewNavigator(loader, newMemoryStore(), nopLogger{}, 20*time.Millisecond)

	s, err := n.Start(context.Background(), "https://example.com/slow", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StateError, s.State)
	assert.Contains(t, s.Error, "deadline exceeded")
}

func TestNavigator_StaleResultDiscarded(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	loader := loaderFunc(func(_ context.Context, url, _ string) (*domain.ProcessedDocument, error) {
		if url == "https://example.com/slow" {
			close(started)
			<-release
		}
		return &domain.ProcessedDocument{Status: domain.DocumentReady, SourceURL: url}, nil
	})
	n := NewNavigator(loader, newMemoryStore(), nopLogger{}, 0)

	s, err := n.Start(ctx, "https://example.com/guide", "")
	require.NoError(t, err)

	type result struct {
		session *domain.Session
		err     error
	}
	slow := make(chan result, 1)
	go func() {
		r, err := n.Navigate(ctx, s.ID, "/slow")
		slow <- result{r, err}
	}()
	<-started

	fast, err := n.Navigate(ctx, s.ID, "/fast")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/fast", fast.Document.SourceURL)

	close(release)
	stale := <-slow
	require.NoError(t, stale.err)

	final, err := n.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateLoaded, final.State)
	assert.Equal(t, "https://example.com/fast", final.Navigation.CurrentURL)
	assert.Equal(t, "https://example.com/fast", final.Document.SourceURL)
	assert.Equal(t, final.Generation, stale.session.Generation)
}

// cancelAwareStore fails like the cache backends do once the context is done
type cancelAwareStore struct {
	*memoryStore
}

func (s cancelAwareStore) Save(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.memoryStore.Save(ctx, session)
}

func (s cancelAwareStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.memoryStore.Get(ctx, id)
}

func TestNavigator_ClientDisconnectDuringLoadLandsInError(t *testing.T) {
	store := cancelAwareStore{newMemoryStore()}
	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := loaderFunc(func(ctx context.Context, url, readingID string) (*domain.ProcessedDocument, error) {
		if url == "https://example.com/guide" {
			return okLoader()(ctx, url, readingID)
		}
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	})
	n := NewNavigator(loader, store, nopLogger{}, time.Second)

	start, err := n.Start(context.Background(), "https://example.com/guide", "r1")
	require.NoError(t, err)

	s, err := n.Navigate(reqCtx, start.ID, "/next")
	require.NoError(t, err)
	assert.Equal(t, domain.StateError, s.State)

	stored, err := n.Get(context.Background(), start.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateError, stored.State)
	require.NotNil(t, stored.Document)
	assert.Equal(t, domain.DocumentUnavailable, stored.Document.Status)
	assert.Equal(t, "https://example.com/next", stored.Document.SourceURL)
	assert.Contains(t, stored.Error, context.Canceled.Error())
}
