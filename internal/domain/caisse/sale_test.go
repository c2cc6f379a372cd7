package caisse

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutReadyCart(t *testing.T) *Cart {
	t.Helper()
	cart := cartWithTotal(t, 6.00)
	cart.AddPaymentLine()
	require.NoError(t, cart.SetPayment(0, PaymentCash, decimal.NewFromFloat(10.00)))
	return cart
}

func TestNewSaleFromCart(t *testing.T) {
	cashier := uuid.New()

	t.Run("freezes lines, total and payments", func(t *testing.T) {
		cart := checkoutReadyCart(t)
		member := uuid.New()
		cart.SetMember(&member)

		sale, err := NewSaleFromCart(cart, "V-2026-0001", cashier)
		require.NoError(t, err)

		assert.Equal(t, "V-2026-0001", sale.Number)
		assert.Equal(t, cashier, sale.CashierID)
		require.NotNil(t, sale.MemberID)
		assert.Equal(t, member, *sale.MemberID)
		require.Len(t, sale.Lines, 1)
		assert.Equal(t, sale.ID, sale.Lines[0].SaleID)
		assert.Equal(t, "6.00", sale.Total.StringFixed(2))
		require.Len(t, sale.Payments, 1)
		assert.Equal(t, "4.00", sale.ChangeDue().StringFixed(2))
	})

	t.Run("drops ineffective payment entries", func(t *testing.T) {
		cart := checkoutReadyCart(t)
		cart.AddPaymentLine() // zero amount, no method

		sale, err := NewSaleFromCart(cart, "V-2026-0002", cashier)
		require.NoError(t, err)
		assert.Len(t, sale.Payments, 1)
	})

	t.Run("publishes SaleRecorded event", func(t *testing.T) {
		sale, err := NewSaleFromCart(checkoutReadyCart(t), "V-2026-0003", cashier)
		require.NoError(t, err)

		events := sale.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSaleRecorded, events[0].EventType())

		event, ok := events[0].(*SaleRecordedEvent)
		require.True(t, ok)
		assert.Equal(t, sale.ID, event.SaleID)
		assert.Equal(t, 1, event.LineCount)
	})

	t.Run("refuses an underpaid cart", func(t *testing.T) {
		cart := cartWithTotal(t, 6.00)
		cart.AddPaymentLine()
		require.NoError(t, cart.SetPayment(0, PaymentCash, decimal.NewFromFloat(5.00)))

		_, err := NewSaleFromCart(cart, "V-2026-0004", cashier)
		require.Error(t, err)
	})

	t.Run("refuses an empty cart", func(t *testing.T) {
		_, err := NewSaleFromCart(NewCart(), "V-2026-0005", cashier)
		require.Error(t, err)
	})

	t.Run("refuses a blank number or nil cashier", func(t *testing.T) {
		cart := checkoutReadyCart(t)
		_, err := NewSaleFromCart(cart, "", cashier)
		require.Error(t, err)
		_, err = NewSaleFromCart(cart, "V-2026-0006", uuid.Nil)
		require.Error(t, err)
	})
}

func TestSaleMarkReceiptSent(t *testing.T) {
	sale, err := NewSaleFromCart(checkoutReadyCart(t), "V-2026-0007", uuid.New())
	require.NoError(t, err)
	require.False(t, sale.ReceiptSent)

	version := sale.GetVersion()
	sale.MarkReceiptSent()

	assert.True(t, sale.ReceiptSent)
	assert.Equal(t, version+1, sale.GetVersion())
}

func TestCartDraft(t *testing.T) {
	t.Run("snapshots and restores a cart wholesale", func(t *testing.T) {
		cart := cartWithTotal(t, 3.00)
		member := uuid.New()
		cart.SetMember(&member)

		draft, err := NewCartDraft("", cart)
		require.NoError(t, err)
		assert.NotEmpty(t, draft.ID)
		assert.Equal(t, "3.00", draft.Total.StringFixed(2))
		assert.False(t, draft.SavedAt.IsZero())

		restored := draft.Restore()
		assert.Equal(t, cart.Lines, restored.Lines)
		require.NotNil(t, restored.MemberID)
		assert.Equal(t, member, *restored.MemberID)
		assert.Empty(t, restored.Payments)
	})

	t.Run("keeps a caller-provided id", func(t *testing.T) {
		draft, err := NewCartDraft("brouillon-7", cartWithTotal(t, 1))
		require.NoError(t, err)
		assert.Equal(t, "brouillon-7", draft.ID)
	})

	t.Run("refuses an empty cart", func(t *testing.T) {
		_, err := NewCartDraft("", NewCart())
		require.Error(t, err)
	})

	t.Run("restored cart is independent of the draft", func(t *testing.T) {
		cart := cartWithTotal(t, 2.00)
		draft, err := NewCartDraft("", cart)
		require.NoError(t, err)

		restored := draft.Restore()
		require.NoError(t, restored.SetQuantity(0, decimal.NewFromInt(5)))
		assert.True(t, draft.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))
	})
}
