package caisse

import (
	"time"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine is a persisted cart line, frozen at checkout
type SaleLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index"`
	Label           string          `gorm:"type:varchar(300);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit            string          `gorm:"type:varchar(20)"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsRefund        bool            `gorm:"not null;default:false"`
	IsMembershipFee bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// SalePayment is one recorded payment of a sale
type SalePayment struct {
	ID     uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method PaymentMethod   `gorm:"type:varchar(20);not null"`
	Amount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SalePayment) TableName() string {
	return "sale_payments"
}

// Sale is the aggregate recording one completed in-store transaction
type Sale struct {
	shared.BaseAggregateRoot
	Number      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CashierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	MemberID    *uuid.UUID      `gorm:"type:uuid;index"`
	Lines       []SaleLine      `gorm:"foreignKey:SaleID"`
	Payments    []SalePayment   `gorm:"foreignKey:SaleID"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReceiptSent bool            `gorm:"not null;default:false"`
	SoldAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSaleFromCart freezes a checkout-ready cart into a Sale.
// The cart must satisfy CanCheckout; payment lines without an amount
// or method are dropped.
func NewSaleFromCart(cart *Cart, number string, cashierID uuid.UUID) (*Sale, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier ID cannot be empty")
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot record a sale without lines")
	}
	if !cart.CanCheckout() {
		return nil, shared.ErrInsufficientPayment
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CashierID:         cashierID,
		MemberID:          cart.MemberID,
		Total:             cart.Total(),
		SoldAt:            time.Now(),
	}

	sale.Lines = make([]SaleLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		sale.Lines = append(sale.Lines, SaleLine{
			ID:              uuid.New(),
			SaleID:          sale.ID,
			ProductID:       line.ProductID,
			Label:           line.Label,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			Unit:            line.Unit,
			Amount:          line.Amount(),
			IsRefund:        line.IsRefund,
			IsMembershipFee: line.IsMembershipFee,
		})
	}

	for _, p := range cart.EffectivePayments() {
		sale.Payments = append(sale.Payments, SalePayment{
			ID:     uuid.New(),
			SaleID: sale.ID,
			Method: p.Method,
			Amount: p.Amount,
		})
	}

	sale.AddDomainEvent(NewSaleRecordedEvent(sale))

	return sale, nil
}

// MarkReceiptSent records that the receipt email went out
func (s *Sale) MarkReceiptSent() {
	s.ReceiptSent = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// TotalMoney returns the sale total as Money
func (s *Sale) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(s.Total)
}

// TotalPaid sums the recorded payments
func (s *Sale) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total.Round(2)
}

// ChangeDue returns the overpayment handed back to the customer
func (s *Sale) ChangeDue() decimal.Decimal {
	change := s.TotalPaid().Sub(s.Total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}
