package caisse

import (
	"context"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/google/uuid"
)

// DraftService parks carts and brings them back. Loading a draft
// replaces the live cart wholesale, payments excluded.
type DraftService struct {
	drafts caisse.DraftStore
	carts  caisse.CartStore
}

// NewDraftService creates a new DraftService
func NewDraftService(drafts caisse.DraftStore, carts caisse.CartStore) *DraftService {
	return &DraftService{
		drafts: drafts,
		carts:  carts,
	}
}

// List returns all parked carts
func (s *DraftService) List(ctx context.Context) ([]DraftResponse, error) {
	drafts, err := s.drafts.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]DraftResponse, len(drafts))
	for i := range drafts {
		responses[i] = ToDraftResponse(&drafts[i])
	}
	return responses, nil
}

// Save snapshots the live cart under the given id. Reusing an id
// overwrites the previous snapshot.
func (s *DraftService) Save(ctx context.Context, cashierID uuid.UUID, draftID string) (*DraftResponse, error) {
	cart, err := s.carts.Get(ctx, cashierID)
	if err != nil {
		return nil, err
	}

	draft, err := caisse.NewCartDraft(draftID, cart)
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}

	response := ToDraftResponse(draft)
	return &response, nil
}

// Load replaces the live cart with a parked one
func (s *DraftService) Load(ctx context.Context, cashierID uuid.UUID, draftID string) (*CartResponse, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	cart := draft.Restore()
	if err := s.carts.Save(ctx, cashierID, cart); err != nil {
		return nil, err
	}

	return ToCartResponse(cart), nil
}

// Delete discards a parked cart
func (s *DraftService) Delete(ctx context.Context, draftID string) error {
	return s.drafts.Delete(ctx, draftID)
}
