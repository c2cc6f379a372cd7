package caisse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartWithTotal(t *testing.T, total float64) *Cart {
	t.Helper()
	cart := NewCart()
	_, err := cart.AddProduct(productRef("article", total))
	require.NoError(t, err)
	return cart
}

func TestCartPaymentReconciliation(t *testing.T) {
	t.Run("remaining is total minus paid", func(t *testing.T) {
		cart := cartWithTotal(t, 6.00)
		cart.AddPaymentLine()
		require.NoError(t, cart.SetPayment(0, PaymentCash, decimal.NewFromFloat(4.00)))

		assert.Equal(t, "2.00", cart.Remaining().StringFixed(2))
	})

	t.Run("negative remaining means change due", func(t *testing.T) {
		cart := cartWithTotal(t, 6.00)
		cart.AddPaymentLine()
		require.NoError(t, cart.SetPayment(0, PaymentCash, decimal.NewFromFloat(10.00)))

		assert.Equal(t, "-4.00", cart.Remaining().StringFixed(2))
		assert.True(t, cart.CanCheckout())
	})

	t.Run("blocked when paid is under the total", func(t *testing.T) {
		cart := cartWithTotal(t, 6.00)
		cart.AddPaymentLine()
		require.NoError(t, cart.SetPayment(0, PaymentCard, decimal.NewFromFloat(5.99)))

		assert.False(t, cart.CanCheckout())
	})

	t.Run("blocked when a positive amount lacks a method even if the sum suffices", func(t *testing.T) {
		cart := cartWithTotal(t, 6.00)
		cart.AddPaymentLine()
		cart.AddPaymentLine()
		require.NoError(t, cart.SetPayment(0, PaymentCash, decimal.NewFromFloat(5.00)))
		require.NoError(t, cart.SetPayment(1, "", decimal.NewFromFloat(1.00)))

		assert.Equal(t, "6.00", cart.TotalPaid().StringFixed(2))
		assert.False(t, cart.CanCheckout())
	})

	t.Run("zero-amount entries without a method do not block", func(t *testing.T) {
		cart := cartWithTotal(t, 6.00)
		cart.AddPaymentLine()
		cart.AddPaymentLine()
		require.NoError(t, cart.SetPayment(0, PaymentCheque, decimal.NewFromFloat(6.00)))

		assert.True(t, cart.CanCheckout())
	})

	t.Run("blocked on an empty cart", func(t *testing.T) {
		cart := NewCart()
		assert.False(t, cart.CanCheckout())
	})

	t.Run("split payment across methods", func(t *testing.T) {
		cart := cartWithTotal(t, 10.00)
		cart.AddPaymentLine()
		cart.AddPaymentLine()
		require.NoError(t, cart.SetPayment(0, PaymentCash, decimal.NewFromFloat(3.50)))
		require.NoError(t, cart.SetPayment(1, PaymentCard, decimal.NewFromFloat(6.50)))

		assert.True(t, cart.CanCheckout())
		assert.Len(t, cart.EffectivePayments(), 2)
	})
}

func TestCartSetPayment(t *testing.T) {
	t.Run("rejects unknown method", func(t *testing.T) {
		cart := cartWithTotal(t, 1)
		cart.AddPaymentLine()
		require.Error(t, cart.SetPayment(0, "bitcoin", decimal.NewFromInt(1)))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		cart := cartWithTotal(t, 1)
		cart.AddPaymentLine()
		require.Error(t, cart.SetPayment(0, PaymentCash, decimal.NewFromInt(-1)))
	})

	t.Run("rejects out-of-range index", func(t *testing.T) {
		cart := cartWithTotal(t, 1)
		require.Error(t, cart.SetPayment(0, PaymentCash, decimal.NewFromInt(1)))
	})

	t.Run("removes a payment entry", func(t *testing.T) {
		cart := cartWithTotal(t, 1)
		cart.AddPaymentLine()
		cart.AddPaymentLine()
		require.NoError(t, cart.RemovePayment(0))
		assert.Len(t, cart.Payments, 1)
		require.Error(t, cart.RemovePayment(5))
	})
}

func TestEffectivePayments(t *testing.T) {
	cart := cartWithTotal(t, 5.00)
	cart.AddPaymentLine()
	cart.AddPaymentLine()
	cart.AddPaymentLine()
	require.NoError(t, cart.SetPayment(0, PaymentCash, decimal.NewFromFloat(5.00)))
	// entry 1 stays zero, entry 2 has amount but no method
	require.NoError(t, cart.SetPayment(2, "", decimal.NewFromFloat(0)))

	effective := cart.EffectivePayments()
	require.Len(t, effective, 1)
	assert.Equal(t, PaymentCash, effective[0].Method)
}
