// ABOUTME: Session and conversation stores on top of any Cache backend
// ABOUTME: Entities are stored as JSON under a typed key prefix with a TTL

package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studyflow-api/core/domain"
	coreerrors "studyflow-api/core/errors"
	"studyflow-api/core/interfaces"
)

type jsonStore[T any] struct {
	cache    interfaces.Cache
	resource string
	ttl      time.Duration
}

func (s jsonStore[T]) key(id string) string {
	return s.resource + ":" + id
}

func (s jsonStore[T]) save(ctx context.Context, id string, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.resource, err)
	}
	return s.cache.Set(ctx, s.key(id), data, s.ttl)
}

func (s jsonStore[T]) get(ctx context.Context, id string) (*T, error) {
	data, err := s.cache.Get(ctx, s.key(id))
	if err != nil {
		if errors.Is(err, interfaces.ErrCacheMiss) {
			return nil, &coreerrors.NotFoundError{Resource: s.resource, ID: id}
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.resource, err)
	}
	return &v, nil
}

// SessionStore implements SessionStorage
type SessionStore struct {
	store jsonStore[domain.Session]
}

// NewSessionStore creates a session store; sessions expire after ttl of inactivity
func NewSessionStore(cache interfaces.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{store: jsonStore[domain.Session]{cache: cache, resource: "session", ttl: ttl}}
}

// Save stores a session, refreshing its TTL
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	return s.store.save(ctx, session.ID, session)
}

// Get loads a session; unknown or expired IDs yield a NotFoundError
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.get(ctx, id)
}

// ConversationStore implements ConversationStorage
type ConversationStore struct {
	store jsonStore[domain.Conversation]
}

// NewConversationStore creates a conversation store
func NewConversationStore(cache interfaces.Cache, ttl time.Duration) *ConversationStore {
	return &ConversationStore{store: jsonStore[domain.Conversation]{cache: cache, resource: "conversation", ttl: ttl}}
}

// Save stores a conversation, refreshing its TTL
func (s *ConversationStore) Save(ctx context.Context, conv *domain.Conversation) error {
	return s.store.save(ctx, conv.ID, conv)
}

// Get loads a conversation; unknown or expired IDs yield a NotFoundError
func (s *ConversationStore) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.store.get(ctx, id)
}
