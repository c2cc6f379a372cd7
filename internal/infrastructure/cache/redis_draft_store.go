package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisDraftStore implements DraftStore using a Redis hash. All drafts
// live under one key so List is a single HGETALL; the key TTL is
// refreshed on every write, so parked sales expire together once the
// station goes quiet.
type RedisDraftStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisDraftStore creates a draft store backed by an existing Redis client
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{
		client: client,
		key:    "caisse:drafts",
		ttl:    ttl,
	}
}

// List returns all parked drafts, most recently saved first
func (s *RedisDraftStore) List(ctx context.Context) ([]caisse.CartDraft, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	drafts := make([]caisse.CartDraft, 0, len(values))
	for _, raw := range values {
		var draft caisse.CartDraft
		if err := json.Unmarshal([]byte(raw), &draft); err != nil {
			return nil, fmt.Errorf("failed to decode draft: %w", err)
		}
		drafts = append(drafts, draft)
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].SavedAt.After(drafts[j].SavedAt)
	})
	return drafts, nil
}

// Get returns a single draft by id
func (s *RedisDraftStore) Get(ctx context.Context, id string) (*caisse.CartDraft, error) {
	raw, err := s.client.HGet(ctx, s.key, id).Result()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft caisse.CartDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

// Save stores a draft and refreshes the expiry of the whole draft set
func (s *RedisDraftStore) Save(ctx context.Context, draft *caisse.CartDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key, draft.ID, data)
	pipe.Expire(ctx, s.key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

// Delete removes a draft by id
func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.HDel(ctx, s.key, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if removed == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure RedisDraftStore implements DraftStore
var _ caisse.DraftStore = (*RedisDraftStore)(nil)
