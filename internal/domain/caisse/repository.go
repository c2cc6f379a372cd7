package caisse

import (
	"context"
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByNumber(ctx context.Context, number string) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]Sale, error)
	Save(ctx context.Context, sale *Sale) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	NextNumber(ctx context.Context, soldAt time.Time) (string, error)
}

// CartStore holds the live cart of each cashier station between
// requests. Missing carts are not an error; Get returns a fresh empty
// cart when nothing is stored.
type CartStore interface {
	Get(ctx context.Context, cashierID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cashierID uuid.UUID, cart *Cart) error
	Delete(ctx context.Context, cashierID uuid.UUID) error
}

// DraftStore persists parked carts. Implementations replace the whole
// draft set atomically (read-all, mutate, write-all) - there is a
// single cashier station per store, no cross-station merge.
type DraftStore interface {
	List(ctx context.Context) ([]CartDraft, error)
	Get(ctx context.Context, id string) (*CartDraft, error)
	Save(ctx context.Context, draft *CartDraft) error
	Delete(ctx context.Context, id string) error
}
