package ordering

import (
	"context"
	"testing"
	"time"

	"github.com/epicoop/backend/internal/domain/catalog"
	"github.com/epicoop/backend/internal/domain/ordering"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	baskets    *fakeBasketRepo
	orders     *fakeOrderRepo
	catalogues *fakeCatalogueRepo
	products   *fakeProductRepo

	basketSvc *BasketService
	orderSvc  *OrderService

	referentID uuid.UUID
	memberID   uuid.UUID
	catalogue  *catalog.Catalogue
	bread      *catalog.Product
	flour      *catalog.Product
}

// newOrderFixture builds an open catalogue holding bread at 3.40 and
// flour at 1.85 with a 2.10 override.
func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		baskets:    newFakeBasketRepo(),
		orders:     newFakeOrderRepo(),
		catalogues: newFakeCatalogueRepo(),
		products:   newFakeProductRepo(),
		referentID: uuid.New(),
		memberID:   uuid.New(),
	}

	logger := zap.NewNop()
	f.basketSvc = NewBasketService(f.baskets, f.catalogues, f.products, logger)
	f.orderSvc = NewOrderService(f.orders, f.baskets, f.catalogues, f.products, logger)

	bread, err := catalog.NewProduct("PAIN", "Pain complet", "pièce")
	require.NoError(t, err)
	require.NoError(t, bread.SetUnitPrice(valueobject.NewMoneyEURFromFloat(3.40)))
	f.bread = bread
	require.NoError(t, f.products.Save(context.Background(), bread))

	flour, err := catalog.NewProduct("FARINE", "Farine T65", "kg")
	require.NoError(t, err)
	require.NoError(t, flour.SetUnitPrice(valueobject.NewMoneyEURFromFloat(1.85)))
	require.NoError(t, flour.SetIncrement(decimal.RequireFromString("0.5")))
	f.flour = flour
	require.NoError(t, f.products.Save(context.Background(), flour))

	catalogue, err := catalog.NewCatalogue("Septembre", f.referentID,
		time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	_, err = catalogue.AddEntry(bread.ID, nil)
	require.NoError(t, err)
	override := valueobject.NewMoneyEURFromFloat(2.10)
	_, err = catalogue.AddEntry(flour.ID, &override)
	require.NoError(t, err)
	require.NoError(t, catalogue.Open())
	f.catalogue = catalogue
	require.NoError(t, f.catalogues.Save(context.Background(), catalogue))

	return f
}

func (f *orderFixture) openBasket(t *testing.T) *BasketResponse {
	t.Helper()
	basket, err := f.basketSvc.GetOrCreate(context.Background(), f.memberID, f.catalogue.ID)
	require.NoError(t, err)
	return basket
}

func TestBasketService(t *testing.T) {
	ctx := context.Background()

	t.Run("creates one basket per member and catalogue", func(t *testing.T) {
		f := newOrderFixture(t)

		first := f.openBasket(t)
		second := f.openBasket(t)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "open", first.Status)
		assert.Empty(t, first.Lines)
	})

	t.Run("prices lines from the catalogue with overrides", func(t *testing.T) {
		f := newOrderFixture(t)
		basket := f.openBasket(t)

		resp, err := f.basketSvc.SetLine(ctx, f.memberID, basket.ID, SetBasketLineRequest{
			ProductID: f.flour.ID,
			Quantity:  decimal.RequireFromString("1.5"),
		})
		require.NoError(t, err)

		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Farine T65", resp.Lines[0].Label)
		assert.True(t, resp.Lines[0].UnitPrice.Equal(decimal.RequireFromString("2.10")),
			"override price should apply, got %s", resp.Lines[0].UnitPrice)
		assert.True(t, resp.Total.Equal(decimal.RequireFromString("3.15")), "got %s", resp.Total)
	})

	t.Run("rejects quantities off the product increment", func(t *testing.T) {
		f := newOrderFixture(t)
		basket := f.openBasket(t)

		_, err := f.basketSvc.SetLine(ctx, f.memberID, basket.ID, SetBasketLineRequest{
			ProductID: f.flour.ID,
			Quantity:  decimal.RequireFromString("0.7"),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INCREMENT", domainErr.Code)
	})

	t.Run("rejects products outside the catalogue", func(t *testing.T) {
		f := newOrderFixture(t)
		basket := f.openBasket(t)

		other, err := catalog.NewProduct("MIEL", "Miel toutes fleurs", "pot")
		require.NoError(t, err)
		require.NoError(t, f.products.Save(ctx, other))

		_, err = f.basketSvc.SetLine(ctx, f.memberID, basket.ID, SetBasketLineRequest{
			ProductID: other.ID,
			Quantity:  decimal.NewFromInt(1),
		})
		require.Error(t, err)
	})

	t.Run("refuses another member's basket", func(t *testing.T) {
		f := newOrderFixture(t)
		basket := f.openBasket(t)

		_, err := f.basketSvc.Get(ctx, uuid.New(), basket.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("refuses a closed catalogue", func(t *testing.T) {
		f := newOrderFixture(t)
		basket := f.openBasket(t)
		require.NoError(t, f.catalogue.Close())

		_, err := f.basketSvc.SetLine(ctx, f.memberID, basket.ID, SetBasketLineRequest{
			ProductID: f.bread.ID,
			Quantity:  decimal.NewFromInt(1),
		})
		require.Error(t, err)

		_, err = f.basketSvc.GetOrCreate(ctx, f.memberID, f.catalogue.ID)
		require.Error(t, err)
	})
}

func TestOrderServicePlace(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes prices and converts the basket", func(t *testing.T) {
		f := newOrderFixture(t)
		basket := f.openBasket(t)

		_, err := f.basketSvc.SetLine(ctx, f.memberID, basket.ID, SetBasketLineRequest{
			ProductID: f.bread.ID,
			Quantity:  decimal.NewFromInt(2),
		})
		require.NoError(t, err)
		_, err = f.basketSvc.SetLine(ctx, f.memberID, basket.ID, SetBasketLineRequest{
			ProductID: f.flour.ID,
			Quantity:  decimal.RequireFromString("1.5"),
		})
		require.NoError(t, err)

		order, err := f.orderSvc.Place(ctx, f.memberID, PlaceOrderRequest{BasketID: basket.ID})
		require.NoError(t, err)

		assert.NotEmpty(t, order.Number)
		assert.Equal(t, "pending", order.Status)
		require.Len(t, order.Lines, 2)
		// 2 x 3.40 + 1.5 x 2.10 = 6.80 + 3.15
		assert.True(t, order.Total.Equal(decimal.RequireFromString("9.95")), "got %s", order.Total)

		stored, err := f.baskets.FindByID(ctx, basket.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.BasketStatusConverted, stored.Status)

		// A later price change does not touch the placed order
		require.NoError(t, f.bread.SetUnitPrice(valueobject.NewMoneyEURFromFloat(9.99)))
		again, err := f.orderSvc.GetForMember(ctx, f.memberID, order.ID)
		require.NoError(t, err)
		assert.True(t, again.Total.Equal(decimal.RequireFromString("9.95")))
	})

	t.Run("refuses an empty basket", func(t *testing.T) {
		f := newOrderFixture(t)
		basket := f.openBasket(t)

		_, err := f.orderSvc.Place(ctx, f.memberID, PlaceOrderRequest{BasketID: basket.ID})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_BASKET", domainErr.Code)
	})

	t.Run("refuses once the catalogue closed", func(t *testing.T) {
		f := newOrderFixture(t)
		basket := f.openBasket(t)
		_, err := f.basketSvc.SetLine(ctx, f.memberID, basket.ID, SetBasketLineRequest{
			ProductID: f.bread.ID,
			Quantity:  decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		require.NoError(t, f.catalogue.Close())

		_, err = f.orderSvc.Place(ctx, f.memberID, PlaceOrderRequest{BasketID: basket.ID})
		require.Error(t, err)
	})
}

func TestOrderServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	place := func(t *testing.T, f *orderFixture) *OrderResponse {
		t.Helper()
		basket := f.openBasket(t)
		_, err := f.basketSvc.SetLine(ctx, f.memberID, basket.ID, SetBasketLineRequest{
			ProductID: f.bread.ID,
			Quantity:  decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		order, err := f.orderSvc.Place(ctx, f.memberID, PlaceOrderRequest{BasketID: basket.ID})
		require.NoError(t, err)
		return order
	}

	t.Run("referent walks the order to delivered", func(t *testing.T) {
		f := newOrderFixture(t)
		order := place(t, f)
		referent := Actor{UserID: f.referentID}

		prepared, err := f.orderSvc.MarkPrepared(ctx, referent, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "prepared", prepared.Status)

		delivered, err := f.orderSvc.MarkDelivered(ctx, referent, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "delivered", delivered.Status)
	})

	t.Run("another referent is refused", func(t *testing.T) {
		f := newOrderFixture(t)
		order := place(t, f)

		_, err := f.orderSvc.MarkPrepared(ctx, Actor{UserID: uuid.New()}, order.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("admin may manage any catalogue", func(t *testing.T) {
		f := newOrderFixture(t)
		order := place(t, f)

		_, err := f.orderSvc.MarkPrepared(ctx, Actor{UserID: uuid.New(), IsAdmin: true}, order.ID)
		require.NoError(t, err)
	})

	t.Run("cancel records the reason", func(t *testing.T) {
		f := newOrderFixture(t)
		order := place(t, f)

		cancelled, err := f.orderSvc.Cancel(ctx, Actor{UserID: f.referentID}, order.ID,
			CancelOrderRequest{Reason: "rupture fournisseur"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
		assert.Equal(t, "rupture fournisseur", cancelled.CancelReason)
	})

	t.Run("delivered orders cannot be cancelled", func(t *testing.T) {
		f := newOrderFixture(t)
		order := place(t, f)
		referent := Actor{UserID: f.referentID}

		_, err := f.orderSvc.MarkPrepared(ctx, referent, order.ID)
		require.NoError(t, err)
		_, err = f.orderSvc.MarkDelivered(ctx, referent, order.ID)
		require.NoError(t, err)

		_, err = f.orderSvc.Cancel(ctx, referent, order.ID, CancelOrderRequest{Reason: "trop tard"})
		require.Error(t, err)
	})

	t.Run("members list their own orders", func(t *testing.T) {
		f := newOrderFixture(t)
		place(t, f)

		mine, err := f.orderSvc.ListForMember(ctx, f.memberID, OrderListFilter{})
		require.NoError(t, err)
		assert.Len(t, mine.Items, 1)

		others, err := f.orderSvc.ListForMember(ctx, uuid.New(), OrderListFilter{})
		require.NoError(t, err)
		assert.Empty(t, others.Items)
	})
}
