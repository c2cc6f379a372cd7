package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/epicoop/backend/internal/domain/ordering"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BasketService manages members' in-progress selections. A member has
// at most one open basket per catalogue; it is created on first use.
type BasketService struct {
	basketRepo    ordering.BasketRepository
	catalogueRepo catalog.CatalogueRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
}

// NewBasketService creates a new basket service
func NewBasketService(
	basketRepo ordering.BasketRepository,
	catalogueRepo catalog.CatalogueRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *BasketService {
	return &BasketService{
		basketRepo:    basketRepo,
		catalogueRepo: catalogueRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// GetOrCreate returns the member's open basket for a catalogue,
// creating an empty one if none exists. The catalogue must be within
// its ordering window.
func (s *BasketService) GetOrCreate(ctx context.Context, memberID, catalogueID uuid.UUID) (*BasketResponse, error) {
	catalogue, err := s.catalogueRepo.FindByID(ctx, catalogueID)
	if err != nil {
		return nil, err
	}
	if !catalogue.IsOrderable(time.Now()) {
		return nil, shared.NewDomainError("CATALOGUE_CLOSED", "Catalogue is not open for orders")
	}

	basket, err := s.basketRepo.FindOpenByMemberAndCatalogue(ctx, memberID, catalogueID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		basket, err = ordering.NewBasket(memberID, catalogueID)
		if err != nil {
			return nil, err
		}
		if err := s.basketRepo.Save(ctx, basket); err != nil {
			return nil, err
		}
		s.logger.Info("Basket created",
			zap.String("basket_id", basket.ID.String()),
			zap.String("member_id", memberID.String()),
			zap.String("catalogue_id", catalogueID.String()))
	}

	return s.toBasketResponse(ctx, basket, catalogue)
}

// SetLine sets a product quantity in the member's basket. Quantities
// must be a multiple of the product's order increment.
func (s *BasketService) SetLine(ctx context.Context, memberID, basketID uuid.UUID, req SetBasketLineRequest) (*BasketResponse, error) {
	basket, catalogue, err := s.ownedBasket(ctx, memberID, basketID)
	if err != nil {
		return nil, err
	}
	if !catalogue.IsOrderable(time.Now()) {
		return nil, shared.NewDomainError("CATALOGUE_CLOSED", "Catalogue is not open for orders")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available")
	}
	if _, err := catalogue.EntryPrice(product.ID, product.UnitPrice); err != nil {
		return nil, err
	}
	if req.Quantity.IsPositive() && product.Increment.IsPositive() &&
		!req.Quantity.Mod(product.Increment).IsZero() {
		return nil, shared.NewDomainError("INVALID_INCREMENT",
			"Quantity must be a multiple of "+product.Increment.String()+" "+product.Unit)
	}

	if err := basket.SetLine(req.ProductID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.basketRepo.Save(ctx, basket); err != nil {
		return nil, err
	}

	return s.toBasketResponse(ctx, basket, catalogue)
}

// RemoveLine removes a product from the member's basket
func (s *BasketService) RemoveLine(ctx context.Context, memberID, basketID, productID uuid.UUID) (*BasketResponse, error) {
	basket, catalogue, err := s.ownedBasket(ctx, memberID, basketID)
	if err != nil {
		return nil, err
	}

	if err := basket.RemoveLine(productID); err != nil {
		return nil, err
	}

	if err := s.basketRepo.Save(ctx, basket); err != nil {
		return nil, err
	}

	return s.toBasketResponse(ctx, basket, catalogue)
}

// Get returns the member's basket with priced lines
func (s *BasketService) Get(ctx context.Context, memberID, basketID uuid.UUID) (*BasketResponse, error) {
	basket, catalogue, err := s.ownedBasket(ctx, memberID, basketID)
	if err != nil {
		return nil, err
	}
	return s.toBasketResponse(ctx, basket, catalogue)
}

// Abandon discards the member's basket
func (s *BasketService) Abandon(ctx context.Context, memberID, basketID uuid.UUID) error {
	basket, _, err := s.ownedBasket(ctx, memberID, basketID)
	if err != nil {
		return err
	}

	if err := basket.Abandon(); err != nil {
		return err
	}

	if err := s.basketRepo.Save(ctx, basket); err != nil {
		return err
	}

	s.logger.Info("Basket abandoned", zap.String("basket_id", basketID.String()))
	return nil
}

func (s *BasketService) ownedBasket(ctx context.Context, memberID, basketID uuid.UUID) (*ordering.Basket, *catalog.Catalogue, error) {
	basket, err := s.basketRepo.FindByID(ctx, basketID)
	if err != nil {
		return nil, nil, err
	}
	if !basket.IsOwnedBy(memberID) {
		return nil, nil, shared.ErrForbidden
	}
	catalogue, err := s.catalogueRepo.FindByID(ctx, basket.CatalogueID)
	if err != nil {
		return nil, nil, err
	}
	return basket, catalogue, nil
}

// toBasketResponse resolves product labels and catalogue prices for
// each line. Lines and total use the same cent rounding as orders so
// the member sees what the order will cost.
func (s *BasketService) toBasketResponse(ctx context.Context, basket *ordering.Basket, catalogue *catalog.Catalogue) (*BasketResponse, error) {
	lines := make([]BasketLineResponse, 0, len(basket.Lines))
	total := decimal.Zero
	for _, line := range basket.Lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		price, err := catalogue.EntryPrice(product.ID, product.UnitPrice)
		if err != nil {
			return nil, err
		}
		amount := line.Quantity.Mul(price).Round(2)
		total = total.Add(amount)
		lines = append(lines, BasketLineResponse{
			ProductID: line.ProductID,
			Label:     product.Name,
			Unit:      product.Unit,
			Quantity:  line.Quantity,
			UnitPrice: price,
			Amount:    amount,
		})
	}

	return &BasketResponse{
		ID:          basket.ID,
		MemberID:    basket.MemberID,
		CatalogueID: basket.CatalogueID,
		Status:      string(basket.Status),
		Lines:       lines,
		Total:       total.Round(2),
		UpdatedAt:   basket.UpdatedAt,
	}, nil
}
