package catalog

import (
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeCategory  = "Category"
	AggregateTypeProduct   = "Product"
	AggregateTypeCatalogue = "Catalogue"
)

// Event type constants
const (
	EventTypeCategoryCreated     = "CategoryCreated"
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductPriceChanged = "ProductPriceChanged"
	EventTypeCatalogueCreated    = "CatalogueCreated"
	EventTypeCatalogueOpened     = "CatalogueOpened"
	EventTypeCatalogueClosed     = "CatalogueClosed"
)

// CategoryCreatedEvent is published when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, category.ID),
		CategoryID:      category.ID,
		Code:            category.Code,
		Name:            category.Name,
	}
}

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		Unit:            product.Unit,
	}
}

// ProductPriceChangedEvent is published when a product price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		OldPrice:        oldPrice,
		NewPrice:        product.UnitPrice,
	}
}

// CatalogueCreatedEvent is published when a new catalogue is created
type CatalogueCreatedEvent struct {
	shared.BaseDomainEvent
	CatalogueID uuid.UUID `json:"catalogue_id"`
	Name        string    `json:"name"`
	ReferentID  uuid.UUID `json:"referent_id"`
	OpensAt     time.Time `json:"opens_at"`
	ClosesAt    time.Time `json:"closes_at"`
}

// NewCatalogueCreatedEvent creates a new CatalogueCreatedEvent
func NewCatalogueCreatedEvent(catalogue *Catalogue) *CatalogueCreatedEvent {
	return &CatalogueCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogueCreated, AggregateTypeCatalogue, catalogue.ID),
		CatalogueID:     catalogue.ID,
		Name:            catalogue.Name,
		ReferentID:      catalogue.ReferentID,
		OpensAt:         catalogue.OpensAt,
		ClosesAt:        catalogue.ClosesAt,
	}
}

// CatalogueOpenedEvent is published when a catalogue is opened for orders
type CatalogueOpenedEvent struct {
	shared.BaseDomainEvent
	CatalogueID uuid.UUID `json:"catalogue_id"`
	Name        string    `json:"name"`
	EntryCount  int       `json:"entry_count"`
}

// NewCatalogueOpenedEvent creates a new CatalogueOpenedEvent
func NewCatalogueOpenedEvent(catalogue *Catalogue) *CatalogueOpenedEvent {
	return &CatalogueOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogueOpened, AggregateTypeCatalogue, catalogue.ID),
		CatalogueID:     catalogue.ID,
		Name:            catalogue.Name,
		EntryCount:      len(catalogue.Entries),
	}
}

// CatalogueClosedEvent is published when a catalogue stops taking orders
type CatalogueClosedEvent struct {
	shared.BaseDomainEvent
	CatalogueID uuid.UUID `json:"catalogue_id"`
	Name        string    `json:"name"`
}

// NewCatalogueClosedEvent creates a new CatalogueClosedEvent
func NewCatalogueClosedEvent(catalogue *Catalogue) *CatalogueClosedEvent {
	return &CatalogueClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogueClosed, AggregateTypeCatalogue, catalogue.ID),
		CatalogueID:     catalogue.ID,
		Name:            catalogue.Name,
	}
}
