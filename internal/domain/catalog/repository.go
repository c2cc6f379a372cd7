package catalog

import (
	"context"
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByCode finds a category by its code
	FindByCode(ctx context.Context, code string) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindActive finds all active categories
	FindActive(ctx context.Context, filter shared.Filter) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a category with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindByBarcode finds a product whose barcode matches the given
	// normalized barcode, ignoring whitespace stored in the column
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds all products in a specific category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindBySupplier finds all products from a specific supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindActive finds all active products
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByCategory counts products in a specific category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// CountBySupplier counts products from a specific supplier
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)

	// ExistsByCode checks if a product with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// CatalogueRepository defines the interface for catalogue persistence
type CatalogueRepository interface {
	// FindByID finds a catalogue by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Catalogue, error)

	// FindAll finds all catalogues matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Catalogue, error)

	// FindByReferent finds all catalogues owned by a referent
	FindByReferent(ctx context.Context, referentID uuid.UUID, filter shared.Filter) ([]Catalogue, error)

	// FindOrderable finds all catalogues open for orders at the given time
	FindOrderable(ctx context.Context, at time.Time) ([]Catalogue, error)

	// Save creates or updates a catalogue
	Save(ctx context.Context, catalogue *Catalogue) error

	// Delete deletes a catalogue
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts catalogues matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
