package cache

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/domain/shared"
)

// InMemoryDraftStore implements DraftStore with a process-local map.
// Suitable for single-instance deployments and tests.
type InMemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

// NewInMemoryDraftStore creates a new in-memory draft store
func NewInMemoryDraftStore() *InMemoryDraftStore {
	return &InMemoryDraftStore{
		drafts: make(map[string][]byte),
	}
}

// List returns all parked drafts, most recently saved first
func (s *InMemoryDraftStore) List(_ context.Context) ([]caisse.CartDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drafts := make([]caisse.CartDraft, 0, len(s.drafts))
	for _, data := range s.drafts {
		var draft caisse.CartDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].SavedAt.After(drafts[j].SavedAt)
	})
	return drafts, nil
}

// Get returns a single draft by id
func (s *InMemoryDraftStore) Get(_ context.Context, id string) (*caisse.CartDraft, error) {
	s.mu.RLock()
	data, ok := s.drafts[id]
	s.mu.RUnlock()

	if !ok {
		return nil, shared.ErrNotFound
	}

	var draft caisse.CartDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Save stores a draft
func (s *InMemoryDraftStore) Save(_ context.Context, draft *caisse.CartDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.drafts[draft.ID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes a draft by id
func (s *InMemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.drafts, id)
	return nil
}

// Ensure InMemoryDraftStore implements DraftStore
var _ caisse.DraftStore = (*InMemoryDraftStore)(nil)
