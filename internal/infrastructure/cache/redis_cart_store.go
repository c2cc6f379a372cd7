package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCartStore implements CartStore using Redis. Each cashier's live
// cart is stored as one JSON value under its own key with a TTL, so an
// abandoned station cleans itself up.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a cart store backed by an existing Redis client
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client:    client,
		keyPrefix: "caisse:cart:",
		ttl:       ttl,
	}
}

// Get returns the stored cart for a cashier, or a fresh empty cart when
// nothing is stored.
func (s *RedisCartStore) Get(ctx context.Context, cashierID uuid.UUID) (*caisse.Cart, error) {
	data, err := s.client.Get(ctx, s.key(cashierID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return caisse.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart caisse.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

// Save stores the cart and refreshes its TTL
func (s *RedisCartStore) Save(ctx context.Context, cashierID uuid.UUID, cart *caisse.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(cashierID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

// Delete removes the stored cart. Deleting a missing cart is not an error.
func (s *RedisCartStore) Delete(ctx context.Context, cashierID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(cashierID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) key(cashierID uuid.UUID) string {
	return s.keyPrefix + cashierID.String()
}

// Ensure RedisCartStore implements CartStore
var _ caisse.CartStore = (*RedisCartStore)(nil)
