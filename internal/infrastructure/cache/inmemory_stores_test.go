package cache

import (
	"context"
	"testing"
	"time"

	"github.com/epicoop/backend/internal/domain/caisse"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCart(t *testing.T) *caisse.Cart {
	t.Helper()
	cart := caisse.NewCart()
	_, err := cart.AddProduct(caisse.ProductRef{
		ID:        uuid.New(),
		Label:     "Pain de campagne",
		UnitPrice: decimal.NewFromFloat(3.40),
		Unit:      "pièce",
		Increment: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	return cart
}

func TestInMemoryCartStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryCartStore()
	cashierID := uuid.New()

	t.Run("returns empty cart when nothing stored", func(t *testing.T) {
		cart, err := store.Get(ctx, cashierID)
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("round-trips a cart", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, cashierID, sampleCart(t)))

		loaded, err := store.Get(ctx, cashierID)
		require.NoError(t, err)
		require.Len(t, loaded.Lines, 1)
		assert.Equal(t, "Pain de campagne", loaded.Lines[0].Label)
		assert.True(t, loaded.Total().Equal(decimal.NewFromFloat(3.40)))
	})

	t.Run("stored cart is isolated from caller mutations", func(t *testing.T) {
		cart := sampleCart(t)
		require.NoError(t, store.Save(ctx, cashierID, cart))
		cart.Clear()

		loaded, err := store.Get(ctx, cashierID)
		require.NoError(t, err)
		assert.False(t, loaded.IsEmpty())
	})

	t.Run("carts are per cashier", func(t *testing.T) {
		other := uuid.New()
		cart, err := store.Get(ctx, other)
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("delete clears the cart", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, cashierID))

		cart, err := store.Get(ctx, cashierID)
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())

		assert.NoError(t, store.Delete(ctx, cashierID), "deleting a missing cart is not an error")
	})
}

func TestInMemoryDraftStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryDraftStore()

	first, err := caisse.NewCartDraft("ticket-1", sampleCart(t))
	require.NoError(t, err)
	second, err := caisse.NewCartDraft("ticket-2", sampleCart(t))
	require.NoError(t, err)
	second.SavedAt = first.SavedAt.Add(time.Minute)

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	t.Run("lists drafts most recent first", func(t *testing.T) {
		drafts, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, "ticket-2", drafts[0].ID)
		assert.Equal(t, "ticket-1", drafts[1].ID)
	})

	t.Run("gets a draft by id", func(t *testing.T) {
		draft, err := store.Get(ctx, "ticket-1")
		require.NoError(t, err)
		assert.Equal(t, "ticket-1", draft.ID)
		require.Len(t, draft.Lines, 1)
	})

	t.Run("returns not found for unknown draft", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete removes the draft", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "ticket-1"))

		_, err := store.Get(ctx, "ticket-1")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, store.Delete(ctx, "ticket-1"), shared.ErrNotFound)
	})
}
