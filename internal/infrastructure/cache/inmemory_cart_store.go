package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/google/uuid"
)

// InMemoryCartStore implements CartStore with a process-local map.
// Suitable for single-instance deployments and tests. Carts are stored
// as JSON so callers never share mutable state with the store.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]byte
}

// NewInMemoryCartStore creates a new in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{
		carts: make(map[uuid.UUID][]byte),
	}
}

// Get returns the stored cart for a cashier, or a fresh empty cart when
// nothing is stored.
func (s *InMemoryCartStore) Get(_ context.Context, cashierID uuid.UUID) (*caisse.Cart, error) {
	s.mu.RLock()
	data, ok := s.carts[cashierID]
	s.mu.RUnlock()

	if !ok {
		return caisse.NewCart(), nil
	}

	var cart caisse.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save stores the cart
func (s *InMemoryCartStore) Save(_ context.Context, cashierID uuid.UUID, cart *caisse.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[cashierID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes the stored cart. Deleting a missing cart is not an error.
func (s *InMemoryCartStore) Delete(_ context.Context, cashierID uuid.UUID) error {
	s.mu.Lock()
	delete(s.carts, cashierID)
	s.mu.Unlock()
	return nil
}

// Ensure InMemoryCartStore implements CartStore
var _ caisse.CartStore = (*InMemoryCartStore)(nil)
