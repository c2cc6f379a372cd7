package caisse

import (
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartDraft is a serialized snapshot of a cart in progress, saved so a
// cashier can park a sale and resume it later. Loading a draft replaces
// the live cart wholesale.
type CartDraft struct {
	ID       string          `json:"id"`
	MemberID *uuid.UUID      `json:"member_id,omitempty"`
	Lines    []CartLine      `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	SavedAt  time.Time       `json:"saved_at"`
}

// NewCartDraft snapshots a cart under the given id; an empty id gets a
// generated one.
func NewCartDraft(id string, cart *Cart) (*CartDraft, error) {
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot save an empty cart")
	}
	if id == "" {
		id = uuid.NewString()
	}

	lines := make([]CartLine, len(cart.Lines))
	copy(lines, cart.Lines)

	return &CartDraft{
		ID:       id,
		MemberID: cart.MemberID,
		Lines:    lines,
		Total:    cart.Total(),
		SavedAt:  time.Now(),
	}, nil
}

// Restore rebuilds a live cart from the draft. Payment lines are not
// part of the snapshot; the cashier re-enters them at checkout.
func (d *CartDraft) Restore() *Cart {
	cart := NewCart()
	cart.MemberID = d.MemberID
	cart.Lines = make([]CartLine, len(d.Lines))
	copy(cart.Lines, d.Lines)
	return cart
}
