package ordering

import (
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BasketStatus represents the lifecycle of a member basket
type BasketStatus string

const (
	BasketStatusOpen      BasketStatus = "open"      // Member is still editing
	BasketStatusConverted BasketStatus = "converted" // Turned into an order
	BasketStatusAbandoned BasketStatus = "abandoned" // Catalogue closed before conversion
)

// BasketLine is a product selection inside a basket. Prices are not
// frozen here; they are resolved from the catalogue at conversion.
type BasketLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	BasketID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (BasketLine) TableName() string {
	return "basket_lines"
}

// Basket is a member's in-progress selection against one catalogue.
// One basket per member per catalogue.
type Basket struct {
	shared.BaseAggregateRoot
	MemberID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_basket_member_catalogue"`
	CatalogueID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_basket_member_catalogue;index"`
	Status      BasketStatus `gorm:"type:varchar(20);not null;default:'open'"`
	Lines       []BasketLine `gorm:"foreignKey:BasketID"`
}

// TableName returns the table name for GORM
func (Basket) TableName() string {
	return "baskets"
}

// NewBasket creates an empty open basket
func NewBasket(memberID, catalogueID uuid.UUID) (*Basket, error) {
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member ID cannot be empty")
	}
	if catalogueID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATALOGUE", "Catalogue ID cannot be empty")
	}

	basket := &Basket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MemberID:          memberID,
		CatalogueID:       catalogueID,
		Status:            BasketStatusOpen,
		Lines:             make([]BasketLine, 0),
	}

	basket.AddDomainEvent(NewBasketCreatedEvent(basket))

	return basket, nil
}

// SetLine sets the quantity for a product, adding the line if absent.
// Quantity must be a positive multiple handling is left to the caller;
// the basket only refuses non-positive values.
func (b *Basket) SetLine(productID uuid.UUID, quantity decimal.Decimal) error {
	if b.Status != BasketStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Basket is no longer editable")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for i := range b.Lines {
		if b.Lines[i].ProductID == productID {
			b.Lines[i].Quantity = quantity
			b.touch()
			return nil
		}
	}

	b.Lines = append(b.Lines, BasketLine{
		ID:        uuid.New(),
		BasketID:  b.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
	b.touch()

	return nil
}

// RemoveLine removes a product from the basket
func (b *Basket) RemoveLine(productID uuid.UUID) error {
	if b.Status != BasketStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Basket is no longer editable")
	}

	for i, line := range b.Lines {
		if line.ProductID == productID {
			b.Lines = append(b.Lines[:i], b.Lines[i+1:]...)
			b.touch()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Product not in basket")
}

// MarkConverted records that an order was created from this basket
func (b *Basket) MarkConverted() error {
	if b.Status != BasketStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Basket has already been closed")
	}
	if len(b.Lines) == 0 {
		return shared.NewDomainError("EMPTY_BASKET", "Cannot convert an empty basket")
	}

	b.Status = BasketStatusConverted
	b.touch()

	return nil
}

// Abandon closes the basket without converting it
func (b *Basket) Abandon() error {
	if b.Status != BasketStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Basket has already been closed")
	}

	b.Status = BasketStatusAbandoned
	b.touch()

	return nil
}

// IsEmpty returns true if the basket has no lines
func (b *Basket) IsEmpty() bool {
	return len(b.Lines) == 0
}

// IsOwnedBy reports whether the given member owns the basket
func (b *Basket) IsOwnedBy(memberID uuid.UUID) bool {
	return b.MemberID == memberID
}

func (b *Basket) touch() {
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
