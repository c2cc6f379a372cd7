package caisse

import (
	"time"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddProductRequest adds a product line to the cart
type AddProductRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// AddByBarcodeRequest adds a product line by scanned barcode
type AddByBarcodeRequest struct {
	Barcode string `json:"barcode" binding:"required,max=50"`
}

// SetQuantityRequest changes the quantity of a cart line
type SetQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// AddRefundRequest adds an avoir line to the cart
type AddRefundRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Comment string          `json:"comment" binding:"max=100"`
}

// AddMembershipFeeRequest adds an adhesion line to the cart
type AddMembershipFeeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SetMemberRequest associates the cart with a member
type SetMemberRequest struct {
	MemberID *uuid.UUID `json:"member_id"`
}

// SetPaymentRequest fills one payment entry
type SetPaymentRequest struct {
	Method caisse.PaymentMethod `json:"method" binding:"required"`
	Amount decimal.Decimal      `json:"amount"`
}

// SaveDraftRequest parks the current cart under an optional id
type SaveDraftRequest struct {
	DraftID string `json:"draft_id" binding:"omitempty,max=50"`
}

// CheckoutRequest finalizes the sale
type CheckoutRequest struct {
	ReceiptEmail string `json:"receipt_email" binding:"omitempty,email,max=200"`
	DraftID      string `json:"draft_id" binding:"omitempty,max=50"` // Draft to remove once the sale is recorded
}

// CartLineResponse is one cart line in API responses
type CartLineResponse struct {
	Index           int             `json:"index"`
	ProductID       *uuid.UUID      `json:"product_id,omitempty"`
	Label           string          `json:"label"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Unit            string          `json:"unit"`
	Amount          decimal.Decimal `json:"amount"`
	IsRefund        bool            `json:"is_refund"`
	IsMembershipFee bool            `json:"is_membership_fee"`
}

// PaymentLineResponse is one payment entry in API responses
type PaymentLineResponse struct {
	Index  int                  `json:"index"`
	Method caisse.PaymentMethod `json:"method"`
	Amount decimal.Decimal      `json:"amount"`
}

// CartResponse is the full cart state returned after every operation
type CartResponse struct {
	MemberID     *uuid.UUID            `json:"member_id,omitempty"`
	Lines        []CartLineResponse    `json:"lines"`
	Payments     []PaymentLineResponse `json:"payments"`
	Total        decimal.Decimal       `json:"total"`
	TotalPaid    decimal.Decimal       `json:"total_paid"`
	Remaining    decimal.Decimal       `json:"remaining"`
	ArticleCount int                   `json:"article_count"`
	CanCheckout  bool                  `json:"can_checkout"`
}

// DraftResponse is a parked cart in API responses
type DraftResponse struct {
	ID           string          `json:"id"`
	MemberID     *uuid.UUID      `json:"member_id,omitempty"`
	Total        decimal.Decimal `json:"total"`
	ArticleCount int             `json:"article_count"`
	SavedAt      time.Time       `json:"saved_at"`
}

// SaleResponse is a recorded sale in API responses
type SaleResponse struct {
	ID          uuid.UUID             `json:"id"`
	Number      string                `json:"number"`
	CashierID   uuid.UUID             `json:"cashier_id"`
	MemberID    *uuid.UUID            `json:"member_id,omitempty"`
	Lines       []CartLineResponse    `json:"lines"`
	Payments    []PaymentLineResponse `json:"payments"`
	Total       decimal.Decimal       `json:"total"`
	ChangeDue   decimal.Decimal       `json:"change_due"`
	ReceiptSent bool                  `json:"receipt_sent"`
	SoldAt      time.Time             `json:"sold_at"`
}

// SaleListFilter represents filter options for the sales journal
type SaleListFilter struct {
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCartResponse converts a domain cart to its API representation
func ToCartResponse(cart *caisse.Cart) *CartResponse {
	lines := make([]CartLineResponse, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = CartLineResponse{
			Index:           i,
			ProductID:       l.ProductID,
			Label:           l.Label,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			Unit:            l.Unit,
			Amount:          l.Amount(),
			IsRefund:        l.IsRefund,
			IsMembershipFee: l.IsMembershipFee,
		}
	}

	payments := make([]PaymentLineResponse, len(cart.Payments))
	for i, p := range cart.Payments {
		payments[i] = PaymentLineResponse{
			Index:  i,
			Method: p.Method,
			Amount: p.Amount,
		}
	}

	return &CartResponse{
		MemberID:     cart.MemberID,
		Lines:        lines,
		Payments:     payments,
		Total:        cart.Total(),
		TotalPaid:    cart.TotalPaid(),
		Remaining:    cart.Remaining(),
		ArticleCount: cart.ArticleCount(),
		CanCheckout:  cart.CanCheckout(),
	}
}

// ToDraftResponse converts a domain draft to its API representation
func ToDraftResponse(draft *caisse.CartDraft) DraftResponse {
	return DraftResponse{
		ID:           draft.ID,
		MemberID:     draft.MemberID,
		Total:        draft.Total,
		ArticleCount: len(draft.Lines),
		SavedAt:      draft.SavedAt,
	}
}

// ToSaleResponse converts a domain sale to its API representation
func ToSaleResponse(sale *caisse.Sale) *SaleResponse {
	lines := make([]CartLineResponse, len(sale.Lines))
	for i, l := range sale.Lines {
		lines[i] = CartLineResponse{
			Index:           i,
			ProductID:       l.ProductID,
			Label:           l.Label,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			Unit:            l.Unit,
			Amount:          l.Amount,
			IsRefund:        l.IsRefund,
			IsMembershipFee: l.IsMembershipFee,
		}
	}

	payments := make([]PaymentLineResponse, len(sale.Payments))
	for i, p := range sale.Payments {
		payments[i] = PaymentLineResponse{
			Index:  i,
			Method: p.Method,
			Amount: p.Amount,
		}
	}

	return &SaleResponse{
		ID:          sale.ID,
		Number:      sale.Number,
		CashierID:   sale.CashierID,
		MemberID:    sale.MemberID,
		Lines:       lines,
		Payments:    payments,
		Total:       sale.Total,
		ChangeDue:   sale.ChangeDue(),
		ReceiptSent: sale.ReceiptSent,
		SoldAt:      sale.SoldAt,
	}
}
