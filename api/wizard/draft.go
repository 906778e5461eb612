package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/redis/go-redis/v9"
)

// DraftRepository persists the serialized wizard state per draft id.
type DraftRepository interface {
	LoadDraft(ctx context.Context, id string) ([]byte, error)
	SaveDraft(ctx context.Context, id string, raw []byte) error
	ClearDraft(ctx context.Context, id string) error
}

const draftKeyPrefix = "jakpat:draft:"

func DraftKey(id string) string {
	return draftKeyPrefix + id
}

type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string][]byte)}
}

func (s *MemoryDraftStore) LoadDraft(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.drafts[DraftKey(id)]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, custom_errors.ErrNotFound)
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryDraftStore) SaveDraft(ctx context.Context, id string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[DraftKey(id)] = append([]byte(nil), raw...)
	return nil
}

func (s *MemoryDraftStore) ClearDraft(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, DraftKey(id))
	return nil
}

type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func (s *RedisDraftStore) LoadDraft(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	raw, err := s.client.Get(ctx, DraftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("draft %s: %w", id, custom_errors.ErrNotFound)
		}
		return nil, fmt.Errorf("error loading draft: %w", err)
	}
	return raw, nil
}

func (s *RedisDraftStore) SaveDraft(ctx context.Context, id string, raw []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, DraftKey(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("error saving draft: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) ClearDraft(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, DraftKey(id)).Err(); err != nil {
		return fmt.Errorf("error clearing draft: %w", err)
	}
	return nil
}
