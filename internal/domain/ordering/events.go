package ordering

import (
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeBasket = "Basket"
	AggregateTypeOrder  = "Order"
)

// Event type constants
const (
	EventTypeBasketCreated      = "BasketCreated"
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// BasketCreatedEvent is published when a member opens a basket
type BasketCreatedEvent struct {
	shared.BaseDomainEvent
	BasketID    uuid.UUID `json:"basket_id"`
	MemberID    uuid.UUID `json:"member_id"`
	CatalogueID uuid.UUID `json:"catalogue_id"`
}

// NewBasketCreatedEvent creates a new BasketCreatedEvent
func NewBasketCreatedEvent(basket *Basket) *BasketCreatedEvent {
	return &BasketCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBasketCreated, AggregateTypeBasket, basket.ID),
		BasketID:        basket.ID,
		MemberID:        basket.MemberID,
		CatalogueID:     basket.CatalogueID,
	}
}

// OrderPlacedEvent is published when a basket becomes an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	Number      string          `json:"number"`
	MemberID    uuid.UUID       `json:"member_id"`
	CatalogueID uuid.UUID       `json:"catalogue_id"`
	Total       decimal.Decimal `json:"total"`
	LineCount   int             `json:"line_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		MemberID:        order.MemberID,
		CatalogueID:     order.CatalogueID,
		Total:           order.Total,
		LineCount:       len(order.Lines),
	}
}

// OrderStatusChangedEvent is published when an order status changes
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID   `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
