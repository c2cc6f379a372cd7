package ordering

import (
	"context"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BasketRepository defines the interface for basket persistence
type BasketRepository interface {
	// FindByID finds a basket by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Basket, error)

	// FindOpenByMemberAndCatalogue finds a member's open basket for a catalogue
	FindOpenByMemberAndCatalogue(ctx context.Context, memberID, catalogueID uuid.UUID) (*Basket, error)

	// FindByMember finds all baskets belonging to a member
	FindByMember(ctx context.Context, memberID uuid.UUID, filter shared.Filter) ([]Basket, error)

	// FindOpenByCatalogue finds all open baskets against a catalogue
	FindOpenByCatalogue(ctx context.Context, catalogueID uuid.UUID) ([]Basket, error)

	// Save creates or updates a basket with its lines
	Save(ctx context.Context, basket *Basket) error

	// Delete deletes a basket
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its number
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByMember finds all orders belonging to a member
	FindByMember(ctx context.Context, memberID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByCatalogue finds all orders placed against a catalogue
	FindByCatalogue(ctx context.Context, catalogueID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order with its lines
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextNumber reserves the next order number
	NextNumber(ctx context.Context) (string, error)
}
