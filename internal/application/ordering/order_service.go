package ordering

import (
	"context"
	"time"

	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/epicoop/backend/internal/domain/ordering"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor identifies who is acting on orders. Referents only reach
// orders placed against their own catalogues unless they are admins.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// OrderService converts baskets into frozen orders and walks them
// through preparation and delivery.
type OrderService struct {
	orderRepo     ordering.OrderRepository
	basketRepo    ordering.BasketRepository
	catalogueRepo catalog.CatalogueRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo ordering.OrderRepository,
	basketRepo ordering.BasketRepository,
	catalogueRepo catalog.CatalogueRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		basketRepo:    basketRepo,
		catalogueRepo: catalogueRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// Place converts the member's basket into an order. Labels, units and
// prices are frozen at this moment; later product edits do not touch
// placed orders.
func (s *OrderService) Place(ctx context.Context, memberID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	basket, err := s.basketRepo.FindByID(ctx, req.BasketID)
	if err != nil {
		return nil, err
	}
	if !basket.IsOwnedBy(memberID) {
		return nil, shared.ErrForbidden
	}
	if basket.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_BASKET", "Basket has no lines")
	}

	catalogue, err := s.catalogueRepo.FindByID(ctx, basket.CatalogueID)
	if err != nil {
		return nil, err
	}
	if !catalogue.IsOrderable(time.Now()) {
		return nil, shared.NewDomainError("CATALOGUE_CLOSED", "Catalogue is not open for orders")
	}

	lines := make([]ordering.OrderLine, 0, len(basket.Lines))
	for _, bl := range basket.Lines {
		product, err := s.productRepo.FindByID(ctx, bl.ProductID)
		if err != nil {
			return nil, err
		}
		price, err := catalogue.EntryPrice(product.ID, product.UnitPrice)
		if err != nil {
			return nil, err
		}
		line, err := ordering.NewOrderLine(uuid.Nil, product.ID, product.Name, product.Unit, bl.Quantity, price)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}

	number, err := s.orderRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := ordering.NewOrder(number, memberID, basket.CatalogueID, lines)
	if err != nil {
		return nil, err
	}
	order.BasketID = &basket.ID
	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	// The order exists either way; a stale basket is cleaned up later
	if err := basket.MarkConverted(); err != nil {
		s.logger.Warn("Failed to mark basket converted",
			zap.String("basket_id", basket.ID.String()),
			zap.Error(err))
	} else if err := s.basketRepo.Save(ctx, basket); err != nil {
		s.logger.Warn("Failed to save converted basket",
			zap.String("basket_id", basket.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number),
		zap.String("member_id", memberID.String()),
		zap.String("total", order.Total.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetForMember returns an order the member owns
func (s *OrderService) GetForMember(ctx context.Context, memberID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(memberID) {
		return nil, shared.ErrForbidden
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListForMember returns the member's own orders
func (s *OrderService) ListForMember(ctx context.Context, memberID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := s.toDomainFilter(filter)

	orders, err := s.orderRepo.FindByMember(ctx, memberID, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}

	result := shared.NewPaginated(items, int64(len(items)), domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// List returns orders for preparation. Referents are limited to their
// own catalogues.
func (s *OrderService) List(ctx context.Context, actor Actor, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := s.toDomainFilter(filter)

	var (
		orders []ordering.Order
		err    error
	)
	if filter.CatalogueID != "" {
		catalogueID, parseErr := uuid.Parse(filter.CatalogueID)
		if parseErr != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid catalogue ID")
		}
		if _, err := s.ownedCatalogue(ctx, actor, catalogueID); err != nil {
			return nil, err
		}
		orders, err = s.orderRepo.FindByCatalogue(ctx, catalogueID, domainFilter)
	} else {
		if !actor.IsAdmin {
			return nil, shared.ErrForbidden
		}
		orders, err = s.orderRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}

	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// MarkPrepared records that the goods were set aside for pickup
func (s *OrderService) MarkPrepared(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actor, orderID, (*ordering.Order).MarkPrepared, "order prepared")
}

// MarkDelivered records that the member collected the goods
func (s *OrderService) MarkDelivered(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actor, orderID, (*ordering.Order).MarkDelivered, "order delivered")
}

// Cancel cancels an order that has not been delivered
func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.managedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("reason", req.Reason))

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) transition(ctx context.Context, actor Actor, orderID uuid.UUID, apply func(*ordering.Order) error, msg string) (*OrderResponse, error) {
	order, err := s.managedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := apply(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info(msg, zap.String("order_id", orderID.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// managedOrder loads an order the actor may manage, which means the
// referent owning its catalogue or an admin.
// exportPageSize bounds how many orders a single export pulls.
const exportPageSize = 10000

// Export returns the raw orders matching the filter for file export.
// The same ownership rules as List apply.
func (s *OrderService) Export(ctx context.Context, actor Actor, filter OrderListFilter) ([]ordering.Order, error) {
	domainFilter := s.toDomainFilter(filter)
	domainFilter.Page = 1
	domainFilter.PageSize = exportPageSize

	if filter.CatalogueID != "" {
		catalogueID, err := uuid.Parse(filter.CatalogueID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid catalogue ID")
		}
		if _, err := s.ownedCatalogue(ctx, actor, catalogueID); err != nil {
			return nil, err
		}
		return s.orderRepo.FindByCatalogue(ctx, catalogueID, domainFilter)
	}

	if !actor.IsAdmin {
		return nil, shared.ErrForbidden
	}
	return s.orderRepo.FindAll(ctx, domainFilter)
}

func (s *OrderService) managedOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCatalogue(ctx, actor, order.CatalogueID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ownedCatalogue(ctx context.Context, actor Actor, catalogueID uuid.UUID) (*catalog.Catalogue, error) {
	catalogue, err := s.catalogueRepo.FindByID(ctx, catalogueID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !catalogue.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrForbidden
	}
	return catalogue, nil
}

func (s *OrderService) toDomainFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "ordered_at"
	domainFilter.OrderDir = "desc"
	if filter.Status != "" {
		domainFilter.Filters = map[string]any{"status": filter.Status}
	}
	return domainFilter
}
