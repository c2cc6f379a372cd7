package catalog

import (
	"fmt"
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogueStatus represents the lifecycle of a catalogue
type CatalogueStatus string

const (
	CatalogueStatusDraft  CatalogueStatus = "draft"
	CatalogueStatusOpen   CatalogueStatus = "open"
	CatalogueStatusClosed CatalogueStatus = "closed"
)

// CanTransitionTo checks if the status can transition to the target status
func (s CatalogueStatus) CanTransitionTo(target CatalogueStatus) bool {
	switch s {
	case CatalogueStatusDraft:
		return target == CatalogueStatusOpen
	case CatalogueStatusOpen:
		return target == CatalogueStatusClosed
	case CatalogueStatusClosed:
		return false
	}
	return false
}

// CatalogueEntry attaches a product to a catalogue, optionally with a
// catalogue-specific price override.
type CatalogueEntry struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	CatalogueID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	PriceOver   *decimal.Decimal `gorm:"type:decimal(18,4)"` // nil = product price applies
	SortOrder   int              `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CatalogueEntry) TableName() string {
	return "catalogue_entries"
}

// Catalogue is a time-boxed list of orderable products published by a
// referent. Members build baskets against an open catalogue.
type Catalogue struct {
	shared.BaseAggregateRoot
	Name       string           `gorm:"type:varchar(200);not null"`
	ReferentID uuid.UUID        `gorm:"type:uuid;not null;index"`
	OpensAt    time.Time        `gorm:"not null"`
	ClosesAt   time.Time        `gorm:"not null"`
	Status     CatalogueStatus  `gorm:"type:varchar(20);not null;default:'draft'"`
	Entries    []CatalogueEntry `gorm:"foreignKey:CatalogueID"`
}

// TableName returns the table name for GORM
func (Catalogue) TableName() string {
	return "catalogues"
}

// NewCatalogue creates a draft catalogue owned by a referent
func NewCatalogue(name string, referentID uuid.UUID, opensAt, closesAt time.Time) (*Catalogue, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Catalogue name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Catalogue name cannot exceed 200 characters")
	}
	if referentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENT", "Referent ID cannot be empty")
	}
	if !closesAt.After(opensAt) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Catalogue must close after it opens")
	}

	catalogue := &Catalogue{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ReferentID:        referentID,
		OpensAt:           opensAt,
		ClosesAt:          closesAt,
		Status:            CatalogueStatusDraft,
		Entries:           make([]CatalogueEntry, 0),
	}

	catalogue.AddDomainEvent(NewCatalogueCreatedEvent(catalogue))

	return catalogue, nil
}

// Update changes name and ordering window. Only allowed in draft.
func (c *Catalogue) Update(name string, opensAt, closesAt time.Time) error {
	if c.Status != CatalogueStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft catalogue can be edited")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Catalogue name cannot be empty")
	}
	if !closesAt.After(opensAt) {
		return shared.NewDomainError("INVALID_WINDOW", "Catalogue must close after it opens")
	}

	c.Name = name
	c.OpensAt = opensAt
	c.ClosesAt = closesAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// AddEntry attaches a product. Only allowed in draft.
func (c *Catalogue) AddEntry(productID uuid.UUID, priceOverride *valueobject.Money) (*CatalogueEntry, error) {
	if c.Status != CatalogueStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Only a draft catalogue can be edited")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	for _, e := range c.Entries {
		if e.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already in catalogue")
		}
	}

	entry := CatalogueEntry{
		ID:          uuid.New(),
		CatalogueID: c.ID,
		ProductID:   productID,
		SortOrder:   len(c.Entries),
	}
	if priceOverride != nil {
		if priceOverride.Amount().IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price override cannot be negative")
		}
		amount := priceOverride.Amount()
		entry.PriceOver = &amount
	}

	c.Entries = append(c.Entries, entry)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return &c.Entries[len(c.Entries)-1], nil
}

// RemoveEntry detaches a product. Only allowed in draft.
func (c *Catalogue) RemoveEntry(productID uuid.UUID) error {
	if c.Status != CatalogueStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft catalogue can be edited")
	}
	for idx, e := range c.Entries {
		if e.ProductID == productID {
			c.Entries = append(c.Entries[:idx], c.Entries[idx+1:]...)
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ENTRY_NOT_FOUND", "Product not in catalogue")
}

// Open publishes the catalogue. Requires at least one entry.
func (c *Catalogue) Open() error {
	if !c.Status.CanTransitionTo(CatalogueStatusOpen) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot open catalogue in %s status", c.Status))
	}
	if len(c.Entries) == 0 {
		return shared.NewDomainError("NO_ENTRIES", "Cannot open a catalogue without products")
	}

	c.Status = CatalogueStatusOpen
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCatalogueOpenedEvent(c))

	return nil
}

// Close ends ordering on the catalogue
func (c *Catalogue) Close() error {
	if !c.Status.CanTransitionTo(CatalogueStatusClosed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close catalogue in %s status", c.Status))
	}

	c.Status = CatalogueStatusClosed
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCatalogueClosedEvent(c))

	return nil
}

// IsOrderable reports whether members can order from the catalogue at
// the given instant: it must be open and inside its window.
func (c *Catalogue) IsOrderable(at time.Time) bool {
	return c.Status == CatalogueStatusOpen &&
		!at.Before(c.OpensAt) &&
		at.Before(c.ClosesAt)
}

// IsOwnedBy reports whether the given referent owns the catalogue
func (c *Catalogue) IsOwnedBy(referentID uuid.UUID) bool {
	return c.ReferentID == referentID
}

// EntryPrice resolves the effective price of a product in this
// catalogue, falling back to the supplied product price when no
// override is set.
func (c *Catalogue) EntryPrice(productID uuid.UUID, productPrice decimal.Decimal) (decimal.Decimal, error) {
	for _, e := range c.Entries {
		if e.ProductID == productID {
			if e.PriceOver != nil {
				return *e.PriceOver, nil
			}
			return productPrice, nil
		}
	}
	return decimal.Zero, shared.NewDomainError("ENTRY_NOT_FOUND", "Product not in catalogue")
}
