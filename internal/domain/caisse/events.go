package caisse

import (
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeSale is the aggregate type for sale events
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleRecorded = "SaleRecorded"
)

// SaleRecordedEvent is published when a sale is checked out
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID    uuid.UUID       `json:"sale_id"`
	Number    string          `json:"number"`
	CashierID uuid.UUID       `json:"cashier_id"`
	MemberID  *uuid.UUID      `json:"member_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
	LineCount int             `json:"line_count"`
}

// NewSaleRecordedEvent creates a new SaleRecordedEvent
func NewSaleRecordedEvent(sale *Sale) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRecorded, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Number:          sale.Number,
		CashierID:       sale.CashierID,
		MemberID:        sale.MemberID,
		Total:           sale.Total,
		LineCount:       len(sale.Lines),
	}
}
