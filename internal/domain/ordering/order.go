package ordering

import (
	"fmt"
	"strings"
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a member order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Waiting for the referent to pass it to the supplier
	OrderStatusPrepared  OrderStatus = "prepared"  // Goods received and set aside for the member
	OrderStatusDelivered OrderStatus = "delivered" // Picked up and paid at the caisse
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPrepared, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPrepared || target == OrderStatusCancelled
	case OrderStatusPrepared:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// OrderLine is a frozen basket line with the price in force at
// conversion time. Amount is rounded to the cent per line.
type OrderLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Label     string          `gorm:"type:varchar(200);not null"`
	Unit      string          `gorm:"type:varchar(20);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine creates a frozen order line with the cent-rounded amount
func NewOrderLine(orderID, productID uuid.UUID, label, unit string, quantity, unitPrice decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if strings.TrimSpace(label) == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Line label cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderLine{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Label:     label,
		Unit:      unit,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    quantity.Mul(unitPrice).Round(2),
	}, nil
}

// Order (commande) is a member's frozen order from a catalogue. It is
// settled later at the caisse when the member picks up the goods.
type Order struct {
	shared.BaseAggregateRoot
	Number       string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	MemberID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CatalogueID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BasketID     *uuid.UUID      `gorm:"type:uuid;index"` // Source basket, when converted
	Status       OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	Lines        []OrderLine     `gorm:"foreignKey:OrderID"`
	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Remark       string          `gorm:"type:text"`
	CancelReason string          `gorm:"type:varchar(200)"`
	OrderedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order with frozen lines. The total is the
// cent-rounded sum of the already rounded line amounts.
func NewOrder(number string, memberID, catalogueID uuid.UUID, lines []OrderLine) (*Order, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member ID cannot be empty")
	}
	if catalogueID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATALOGUE", "Catalogue ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one line")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		MemberID:          memberID,
		CatalogueID:       catalogueID,
		Status:            OrderStatusPending,
		Lines:             make([]OrderLine, len(lines)),
		OrderedAt:         time.Now(),
	}
	copy(order.Lines, lines)
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
	}
	order.Total = sumLineAmounts(order.Lines)

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// SetRemark attaches a note to the order
func (o *Order) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// MarkPrepared records that goods arrived and were set aside
func (o *Order) MarkPrepared() error {
	if !o.Status.CanTransitionTo(OrderStatusPrepared) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot prepare order in %s status", o.Status))
	}

	o.Status = OrderStatusPrepared
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusPending, OrderStatusPrepared))

	return nil
}

// MarkDelivered records pickup and settlement at the caisse
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	oldStatus := o.Status
	o.Status = OrderStatusDelivered
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, OrderStatusDelivered))

	return nil
}

// Cancel cancels the order with a reason
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if len(reason) > 200 {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason cannot exceed 200 characters")
	}

	oldStatus := o.Status
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, OrderStatusCancelled))

	return nil
}

// IsOwnedBy reports whether the given member owns the order
func (o *Order) IsOwnedBy(memberID uuid.UUID) bool {
	return o.MemberID == memberID
}

func sumLineAmounts(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}
	return total.Round(2)
}
