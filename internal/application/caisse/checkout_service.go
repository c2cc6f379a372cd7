package caisse

import (
	"context"
	"time"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptMailer sends the sale receipt to the member
type ReceiptMailer interface {
	SendReceipt(ctx context.Context, to string, sale *caisse.Sale) error
}

// CheckoutService finalizes a sale: it freezes the live cart into a
// Sale with its payment records, persists it, sends the receipt,
// clears the cart, and removes the source draft if one was loaded.
// Everything after the save is best effort and never fails the
// checkout.
type CheckoutService struct {
	saleRepo caisse.SaleRepository
	carts    caisse.CartStore
	drafts   caisse.DraftStore
	mailer   ReceiptMailer
	logger   *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	saleRepo caisse.SaleRepository,
	carts caisse.CartStore,
	drafts caisse.DraftStore,
	mailer ReceiptMailer,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		saleRepo: saleRepo,
		carts:    carts,
		drafts:   drafts,
		mailer:   mailer,
		logger:   logger,
	}
}

// ValidateSale records the sale from the cashier's live cart
func (s *CheckoutService) ValidateSale(ctx context.Context, cashierID uuid.UUID, req CheckoutRequest) (*SaleResponse, error) {
	cart, err := s.carts.Get(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot check out an empty cart")
	}
	if !cart.CanCheckout() {
		return nil, shared.ErrInsufficientPayment
	}

	soldAt := time.Now()
	number, err := s.saleRepo.NextNumber(ctx, soldAt)
	if err != nil {
		return nil, err
	}

	sale, err := caisse.NewSaleFromCart(cart, number, cashierID)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	// The sale is on record from here on. No receipt ever goes out for
	// a sale that was not recorded.
	if req.ReceiptEmail != "" && s.mailer != nil {
		if err := s.mailer.SendReceipt(ctx, req.ReceiptEmail, sale); err != nil {
			s.logger.Warn("receipt email failed",
				zap.String("sale_number", sale.Number),
				zap.Error(err))
		} else {
			sale.MarkReceiptSent()
			if err := s.saleRepo.Save(ctx, sale); err != nil {
				s.logger.Warn("receipt flag update failed",
					zap.String("sale_number", sale.Number),
					zap.Error(err))
			}
		}
	}

	cart.Clear()
	if err := s.carts.Save(ctx, cashierID, cart); err != nil {
		s.logger.Warn("cart clear failed after checkout",
			zap.String("sale_number", sale.Number),
			zap.Error(err))
	}

	if req.DraftID != "" {
		if err := s.drafts.Delete(ctx, req.DraftID); err != nil {
			s.logger.Warn("draft cleanup failed after checkout",
				zap.String("draft_id", req.DraftID),
				zap.Error(err))
		}
	}

	s.logger.Info("sale recorded",
		zap.String("number", sale.Number),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.Int("lines", len(sale.Lines)))

	return ToSaleResponse(sale), nil
}

// GetSale returns one recorded sale
func (s *CheckoutService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// ListSales returns the sales journal, optionally bounded by dates
func (s *CheckoutService) ListSales(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	if filter.From != nil && filter.To != nil {
		sales, err := s.saleRepo.FindBetween(ctx, *filter.From, *filter.To)
		if err != nil {
			return nil, err
		}
		responses := make([]SaleResponse, len(sales))
		for i := range sales {
			responses[i] = *ToSaleResponse(&sales[i])
		}
		page := shared.NewPaginated(responses, int64(len(responses)), 1, max(len(responses), 1))
		return &page, nil
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "sold_at"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	sales, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = *ToSaleResponse(&sales[i])
	}

	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ExportSales returns the raw sales recorded in [from, to) for file export
func (s *CheckoutService) ExportSales(ctx context.Context, from, to time.Time) ([]caisse.Sale, error) {
	return s.saleRepo.FindBetween(ctx, from, to)
}
