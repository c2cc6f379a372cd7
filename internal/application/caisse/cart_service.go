package caisse

import (
	"context"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService drives the live cart of a cashier station. Every
// operation loads the cart, applies one mutation, and stores it back;
// the full cart state is returned so the till can redraw.
type CartService struct {
	carts       caisse.CartStore
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(carts caisse.CartStore, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		carts:       carts,
		productRepo: productRepo,
	}
}

// Get returns the current cart state
func (s *CartService) Get(ctx context.Context, cashierID uuid.UUID) (*CartResponse, error) {
	cart, err := s.carts.Get(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(cart), nil
}

// SetMember associates the cart with a member
func (s *CartService) SetMember(ctx context.Context, cashierID uuid.UUID, memberID *uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		cart.SetMember(memberID)
		return nil
	})
}

// AddProduct adds one increment of a catalog product to the cart
func (s *CartService) AddProduct(ctx context.Context, cashierID, productID uuid.UUID) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not for sale")
	}

	ref := toProductRef(product)
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		_, err := cart.AddProduct(ref)
		return err
	})
}

// AddByBarcode resolves a scanned barcode to an active product and
// adds it to the cart. Matching ignores whitespace on both sides.
func (s *CartService) AddByBarcode(ctx context.Context, cashierID uuid.UUID, barcode string) (*CartResponse, error) {
	normalized := caisse.NormalizeBarcode(barcode)
	if normalized == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}

	product, err := s.productRepo.FindByBarcode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not for sale")
	}

	ref := toProductRef(product)
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		_, err := cart.AddProduct(ref)
		return err
	})
}

// SetQuantity changes the quantity of a cart line
func (s *CartService) SetQuantity(ctx context.Context, cashierID uuid.UUID, index int, quantity decimal.Decimal) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		return cart.SetQuantity(index, quantity)
	})
}

// RemoveLine removes a cart line
func (s *CartService) RemoveLine(ctx context.Context, cashierID uuid.UUID, index int) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		return cart.RemoveLine(index)
	})
}

// AddRefund adds an avoir line, capped to the product total
func (s *CartService) AddRefund(ctx context.Context, cashierID uuid.UUID, amount decimal.Decimal, comment string) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		_, err := cart.AddRefund(valueobject.NewMoneyEUR(amount), comment)
		return err
	})
}

// AddMembershipFee adds the adhesion line and syncs the first payment
func (s *CartService) AddMembershipFee(ctx context.Context, cashierID uuid.UUID, amount decimal.Decimal) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		_, err := cart.AddMembershipFee(valueobject.NewMoneyEUR(amount))
		return err
	})
}

// AddPaymentLine appends an empty payment entry
func (s *CartService) AddPaymentLine(ctx context.Context, cashierID uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		cart.AddPaymentLine()
		return nil
	})
}

// SetPayment fills a payment entry
func (s *CartService) SetPayment(ctx context.Context, cashierID uuid.UUID, index int, method caisse.PaymentMethod, amount decimal.Decimal) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		return cart.SetPayment(index, method, amount)
	})
}

// RemovePayment removes a payment entry
func (s *CartService) RemovePayment(ctx context.Context, cashierID uuid.UUID, index int) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		return cart.RemovePayment(index)
	})
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, cashierID uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, cashierID, func(cart *caisse.Cart) error {
		cart.Clear()
		return nil
	})
}

func (s *CartService) mutate(ctx context.Context, cashierID uuid.UUID, fn func(*caisse.Cart) error) (*CartResponse, error) {
	cart, err := s.carts.Get(ctx, cashierID)
	if err != nil {
		return nil, err
	}

	if err := fn(cart); err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, cashierID, cart); err != nil {
		return nil, err
	}

	return ToCartResponse(cart), nil
}

func toProductRef(p *catalog.Product) caisse.ProductRef {
	return caisse.ProductRef{
		ID:        p.ID,
		Label:     p.Name,
		UnitPrice: p.UnitPrice,
		Unit:      p.Unit,
		Increment: p.Increment,
		Barcode:   p.Barcode,
	}
}
