package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"meetup_bot/internal/util"

	"github.com/go-redis/redis/v8"
)

// draftTTL bounds abandoned dialogs; an untouched draft disappears after it.
const draftTTL = 24 * time.Hour

// Store keeps dialog drafts keyed by chat id. Get returns
// util.ErrDraftNotFound when no draft exists.
type Store interface {
	Get(ctx context.Context, chatID int64) (*Draft, error)
	Put(ctx context.Context, chatID int64, draft *Draft) error
	Delete(ctx context.Context, chatID int64) error

	GetEvent(ctx context.Context, chatID int64) (*EventDraft, error)
	PutEvent(ctx context.Context, chatID int64, draft *EventDraft) error
	DeleteEvent(ctx context.Context, chatID int64) error

	GetSearch(ctx context.Context, chatID int64) (*SearchDraft, error)
	PutSearch(ctx context.Context, chatID int64, draft *SearchDraft) error
	DeleteSearch(ctx context.Context, chatID int64) error
}

// RedisStore persists drafts as JSON in Redis so dialogs survive restarts.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func profileKey(chatID int64) string {
	return fmt.Sprintf("session:profile:%d", chatID)
}

func eventKey(chatID int64) string {
	return fmt.Sprintf("session:event:%d", chatID)
}

func searchKey(chatID int64) string {
	return fmt.Sprintf("session:search:%d", chatID)
}

func (s *RedisStore) Get(ctx context.Context, chatID int64) (*Draft, error) {
	data, err := s.Client.Get(ctx, profileKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *RedisStore) Put(ctx context.Context, chatID int64, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, profileKey(chatID), data, draftTTL).Err()
}

func (s *RedisStore) Delete(ctx context.Context, chatID int64) error {
	return s.Client.Del(ctx, profileKey(chatID)).Err()
}

func (s *RedisStore) GetEvent(ctx context.Context, chatID int64) (*EventDraft, error) {
	data, err := s.Client.Get(ctx, eventKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var draft EventDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *RedisStore) PutEvent(ctx context.Context, chatID int64, draft *EventDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, eventKey(chatID), data, draftTTL).Err()
}

func (s *RedisStore) DeleteEvent(ctx context.Context, chatID int64) error {
	return s.Client.Del(ctx, eventKey(chatID)).Err()
}

func (s *RedisStore) GetSearch(ctx context.Context, chatID int64) (*SearchDraft, error) {
	data, err := s.Client.Get(ctx, searchKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var draft SearchDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *RedisStore) PutSearch(ctx context.Context, chatID int64, draft *SearchDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, searchKey(chatID), data, draftTTL).Err()
}

func (s *RedisStore) DeleteSearch(ctx context.Context, chatID int64) error {
	return s.Client.Del(ctx, searchKey(chatID)).Err()
}

// MemoryStore is the fallback when Redis is not configured, and the store of
// choice in tests. Drafts do not survive restarts.
type MemoryStore struct {
	mu      sync.RWMutex
	drafts  map[int64]*Draft
	edrafts map[int64]*EventDraft
	sdrafts map[int64]*SearchDraft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts:  make(map[int64]*Draft),
		edrafts: make(map[int64]*EventDraft),
		sdrafts: make(map[int64]*SearchDraft),
	}
}

func (s *MemoryStore) Get(_ context.Context, chatID int64) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[chatID]
	if !ok {
		return nil, util.ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (s *MemoryStore) Put(_ context.Context, chatID int64, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *draft
	s.drafts[chatID] = &copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, chatID)
	return nil
}

func (s *MemoryStore) GetEvent(_ context.Context, chatID int64) (*EventDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.edrafts[chatID]
	if !ok {
		return nil, util.ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (s *MemoryStore) PutEvent(_ context.Context, chatID int64, draft *EventDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *draft
	s.edrafts[chatID] = &copied
	return nil
}

func (s *MemoryStore) DeleteEvent(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edrafts, chatID)
	return nil
}

func (s *MemoryStore) GetSearch(_ context.Context, chatID int64) (*SearchDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.sdrafts[chatID]
	if !ok {
		return nil, util.ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (s *MemoryStore) PutSearch(_ context.Context, chatID int64, draft *SearchDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *draft
	s.sdrafts[chatID] = &copied
	return nil
}

func (s *MemoryStore) DeleteSearch(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sdrafts, chatID)
	return nil
}
