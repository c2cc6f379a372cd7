package ordering

import (
	"time"

	"github.com/epicoop/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetBasketLineRequest sets a product quantity in a basket
type SetBasketLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// BasketLineResponse is one basket line with resolved product data
type BasketLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Label     string          `json:"label"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// BasketResponse is the basket representation returned to callers
type BasketResponse struct {
	ID          uuid.UUID            `json:"id"`
	MemberID    uuid.UUID            `json:"member_id"`
	CatalogueID uuid.UUID            `json:"catalogue_id"`
	Status      string               `json:"status"`
	Lines       []BasketLineResponse `json:"lines"`
	Total       decimal.Decimal      `json:"total"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// PlaceOrderRequest converts a basket into an order
type PlaceOrderRequest struct {
	BasketID uuid.UUID `json:"basket_id" binding:"required"`
	Remark   string    `json:"remark" binding:"max=500"`
}

// CancelOrderRequest cancels an order with a reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=200"`
}

// OrderLineResponse is one frozen order line
type OrderLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Label     string          `json:"label"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// OrderResponse is the order representation returned to callers
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	Number       string              `json:"number"`
	MemberID     uuid.UUID           `json:"member_id"`
	CatalogueID  uuid.UUID           `json:"catalogue_id"`
	BasketID     *uuid.UUID          `json:"basket_id,omitempty"`
	Status       string              `json:"status"`
	Lines        []OrderLineResponse `json:"lines"`
	Total        decimal.Decimal     `json:"total"`
	Remark       string              `json:"remark,omitempty"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	OrderedAt    time.Time           `json:"ordered_at"`
}

// OrderListFilter narrows order listings
type OrderListFilter struct {
	CatalogueID string `form:"catalogue_id"`
	Status      string `form:"status"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// ToOrderResponse converts an order to its response representation
func ToOrderResponse(order *ordering.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineResponse{
			ProductID: line.ProductID,
			Label:     line.Label,
			Unit:      line.Unit,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Amount:    line.Amount,
		}
	}
	return OrderResponse{
		ID:           order.ID,
		Number:       order.Number,
		MemberID:     order.MemberID,
		CatalogueID:  order.CatalogueID,
		BasketID:     order.BasketID,
		Status:       string(order.Status),
		Lines:        lines,
		Total:        order.Total,
		Remark:       order.Remark,
		CancelReason: order.CancelReason,
		OrderedAt:    order.OrderedAt,
	}
}
