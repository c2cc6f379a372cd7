package caisse

import (
	"testing"

	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRef(label string, price float64) ProductRef {
	return ProductRef{
		ID:        uuid.New(),
		Label:     label,
		UnitPrice: decimal.NewFromFloat(price),
		Unit:      "pcs",
		Increment: decimal.NewFromInt(1),
	}
}

func TestCartAddProduct(t *testing.T) {
	t.Run("appends a new line at the minimum increment", func(t *testing.T) {
		cart := NewCart()
		p := productRef("Farine T65", 2.30)
		p.Increment = decimal.NewFromFloat(0.5)

		idx, err := cart.AddProduct(p)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		require.Len(t, cart.Lines, 1)
		assert.True(t, cart.Lines[0].Quantity.Equal(decimal.NewFromFloat(0.5)))
		assert.Equal(t, "Farine T65", cart.Lines[0].Label)
	})

	t.Run("increments by the increment when the product line exists", func(t *testing.T) {
		cart := NewCart()
		p := productRef("Lentilles", 3.10)
		p.Increment = decimal.NewFromFloat(0.25)

		_, err := cart.AddProduct(p)
		require.NoError(t, err)
		idx, err := cart.AddProduct(p)
		require.NoError(t, err)

		assert.Equal(t, 0, idx)
		require.Len(t, cart.Lines, 1)
		assert.True(t, cart.Lines[0].Quantity.Equal(decimal.NewFromFloat(0.5)))
	})

	t.Run("defaults a non-positive increment to 1", func(t *testing.T) {
		cart := NewCart()
		p := productRef("Oeufs", 0.45)
		p.Increment = decimal.Zero

		_, err := cart.AddProduct(p)
		require.NoError(t, err)
		assert.True(t, cart.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))
	})

	t.Run("rejects nil product id", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(ProductRef{})
		require.Error(t, err)
	})
}

func TestCartAddByBarcode(t *testing.T) {
	t.Run("matches whitespace-insensitively", func(t *testing.T) {
		cart := NewCart()
		p := productRef("Café moulu", 5.80)
		p.Barcode = " 123 456 "

		idx, err := cart.AddByBarcode("123456", []ProductRef{p})
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "Café moulu", cart.Lines[0].Label)
	})

	t.Run("normalizes the scanned input too", func(t *testing.T) {
		cart := NewCart()
		p := productRef("Riz complet", 2.95)
		p.Barcode = "3401020"

		_, err := cart.AddByBarcode("  34 01 020\t", []ProductRef{p})
		require.NoError(t, err)
	})

	t.Run("fails on unknown barcode", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddByBarcode("999", []ProductRef{productRef("x", 1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "999")
	})

	t.Run("fails on blank input", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddByBarcode("   ", nil)
		require.Error(t, err)
	})
}

func TestCartSetQuantity(t *testing.T) {
	t.Run("rejects non-positive quantity", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("Tomates", 3.50))
		require.NoError(t, err)

		require.Error(t, cart.SetQuantity(0, decimal.Zero))
		require.Error(t, cart.SetQuantity(0, decimal.NewFromInt(-2)))
		assert.True(t, cart.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))
	})

	t.Run("rejects out-of-range index", func(t *testing.T) {
		cart := NewCart()
		require.Error(t, cart.SetQuantity(0, decimal.NewFromInt(1)))
	})

	t.Run("updates quantity and total", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("Pommes", 3.00))
		require.NoError(t, err)
		require.NoError(t, cart.SetQuantity(0, decimal.NewFromInt(2)))
		assert.Equal(t, "6.00", cart.Total().StringFixed(2))
	})
}

func TestCartTotals(t *testing.T) {
	t.Run("rounds each line before summing then rounds the sum", func(t *testing.T) {
		cart := NewCart()
		// 3 x 0.333 = 0.999 -> 1.00 per line rounding
		p := productRef("Vrac", 0.333)
		_, err := cart.AddProduct(p)
		require.NoError(t, err)
		require.NoError(t, cart.SetQuantity(0, decimal.NewFromInt(3)))

		assert.Equal(t, "1.00", cart.Total().StringFixed(2))
	})

	t.Run("article count is the line count, not the quantity sum", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("A", 1.00))
		require.NoError(t, err)
		require.NoError(t, cart.SetQuantity(0, decimal.NewFromInt(5)))
		_, err = cart.AddProduct(productRef("B", 2.00))
		require.NoError(t, err)

		assert.Equal(t, 2, cart.ArticleCount())
	})

	t.Run("total matches the per-line rounding identity for mixed carts", func(t *testing.T) {
		cart := NewCart()
		prices := []float64{1.115, 2.335, 0.005}
		for _, price := range prices {
			_, err := cart.AddProduct(productRef("p", price))
			require.NoError(t, err)
		}

		expected := decimal.Zero
		for _, line := range cart.Lines {
			expected = expected.Add(line.Quantity.Mul(line.UnitPrice).Round(2))
		}
		assert.True(t, cart.Total().Equal(expected.Round(2)))
	})
}

func TestCartAddRefund(t *testing.T) {
	t.Run("appends a negative line with annotated label", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("Pain", 10.00))
		require.NoError(t, err)

		idx, err := cart.AddRefund(valueobject.NewMoneyEURFromFloat(4.00), "pot rendu")
		require.NoError(t, err)
		require.Equal(t, 1, idx)

		line := cart.Lines[1]
		assert.True(t, line.IsRefund)
		assert.Equal(t, "Avoir: pot rendu (initial: 4.00€)", line.Label)
		assert.Equal(t, "-4.00", line.Amount().StringFixed(2))
		assert.Equal(t, "6.00", cart.Total().StringFixed(2))
	})

	t.Run("clamps to the available allowance", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("Beurre", 3.00))
		require.NoError(t, err)
		require.NoError(t, cart.SetQuantity(0, decimal.NewFromInt(2))) // total 6.00

		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(8.00), "retour")
		require.NoError(t, err)

		line := cart.Lines[1]
		assert.Equal(t, "-6.00", line.Amount().StringFixed(2))
		assert.Equal(t, "Avoir: retour (initial: 8.00€, limité à: 6.00€)", line.Label)
		// allowance is exhausted after the capped refund
		assert.True(t, cart.refundAllowance().IsZero())
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(1.00), "encore")
		require.Error(t, err)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("x", 5))
		require.NoError(t, err)
		_, err = cart.AddRefund(valueobject.ZeroEUR(), "rien")
		require.Error(t, err)
	})

	t.Run("rejects refund on an empty cart", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddRefund(valueobject.NewMoneyEURFromFloat(1.00), "vide")
		require.Error(t, err)
	})
}

func TestCartRefundCapping(t *testing.T) {
	refundInvariant := func(t *testing.T, cart *Cart) {
		t.Helper()
		diff := cart.refundTotal().Sub(cart.productTotal())
		assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)),
			"refunds %s exceed products %s", cart.refundTotal(), cart.productTotal())
	}

	t.Run("shrinks refunds when a quantity decreases", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("Huile", 5.00))
		require.NoError(t, err)
		require.NoError(t, cart.SetQuantity(0, decimal.NewFromInt(2))) // 10.00
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(8.00), "casse")
		require.NoError(t, err)

		require.NoError(t, cart.SetQuantity(0, decimal.NewFromInt(1))) // 5.00

		require.Len(t, cart.Lines, 2)
		assert.Equal(t, "-5.00", cart.Lines[1].Amount().StringFixed(2))
		assert.Contains(t, cart.Lines[1].Label, "initial: 8.00€")
		assert.Contains(t, cart.Lines[1].Label, "limité à: 5.00€")
		refundInvariant(t, cart)
	})

	t.Run("keeps a single limité à annotation across repeated capping", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("Miel", 10.00))
		require.NoError(t, err)
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(9.00), "bocal")
		require.NoError(t, err)

		require.NoError(t, cart.SetQuantity(0, decimal.NewFromFloat(0.8))) // 8.00
		require.NoError(t, cart.SetQuantity(0, decimal.NewFromFloat(0.6))) // 6.00

		label := cart.Lines[1].Label
		assert.Equal(t, "Avoir: bocal (initial: 9.00€, limité à: 6.00€)", label)
		refundInvariant(t, cart)
	})

	t.Run("shrinks refunds in list order and drops zeroed ones", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("Savon", 10.00))
		require.NoError(t, err)
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(6.00), "premier")
		require.NoError(t, err)
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(4.00), "second")
		require.NoError(t, err)

		// product total drops to 5.00: first refund shrinks to 5.00,
		// second is fully consumed and dropped
		require.NoError(t, cart.SetQuantity(0, decimal.NewFromFloat(0.5)))

		require.Len(t, cart.Lines, 2)
		assert.Equal(t, "-5.00", cart.Lines[1].Amount().StringFixed(2))
		assert.Contains(t, cart.Lines[1].Label, "premier")
		refundInvariant(t, cart)
	})

	t.Run("re-caps when a non-refund line is removed", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("A", 6.00))
		require.NoError(t, err)
		_, err = cart.AddProduct(productRef("B", 4.00))
		require.NoError(t, err)
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(10.00), "tout")
		require.NoError(t, err)

		require.NoError(t, cart.RemoveLine(1)) // drop B, products now 6.00

		require.Len(t, cart.Lines, 2)
		assert.Equal(t, "-6.00", cart.Lines[1].Amount().StringFixed(2))
		refundInvariant(t, cart)
	})

	t.Run("removing a refund line does not touch the others", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("A", 10.00))
		require.NoError(t, err)
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(3.00), "un")
		require.NoError(t, err)
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(2.00), "deux")
		require.NoError(t, err)

		require.NoError(t, cart.RemoveLine(1))

		require.Len(t, cart.Lines, 2)
		assert.Equal(t, "Avoir: deux (initial: 2.00€)", cart.Lines[1].Label)
		refundInvariant(t, cart)
	})

	t.Run("invariant holds across arbitrary mutation sequences", func(t *testing.T) {
		cart := NewCart()
		a := productRef("a", 1.95)
		b := productRef("b", 7.20)
		_, err := cart.AddProduct(a)
		require.NoError(t, err)
		_, err = cart.AddProduct(b)
		require.NoError(t, err)
		require.NoError(t, cart.SetQuantity(1, decimal.NewFromInt(3)))
		_, err = cart.AddRefund(valueobject.NewMoneyEURFromFloat(20.00), "gros retour")
		require.NoError(t, err)
		require.NoError(t, cart.SetQuantity(1, decimal.NewFromInt(1)))
		require.NoError(t, cart.RemoveLine(0))
		refundInvariant(t, cart)

		// total stays the per-line rounding identity
		expected := decimal.Zero
		for _, line := range cart.Lines {
			expected = expected.Add(line.Quantity.Mul(line.UnitPrice).Round(2))
		}
		assert.True(t, cart.Total().Equal(expected.Round(2)))
	})
}

func TestCartMembershipFee(t *testing.T) {
	t.Run("accepts an amount inside the bounds", func(t *testing.T) {
		cart := NewCart()
		idx, err := cart.AddMembershipFee(valueobject.NewMoneyEURFromFloat(10.00))
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		assert.True(t, cart.Lines[0].IsMembershipFee)
		assert.Equal(t, "10.00", cart.Total().StringFixed(2))
	})

	t.Run("rejects amounts outside 5-15", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddMembershipFee(valueobject.NewMoneyEURFromFloat(4.00))
		require.Error(t, err)
		_, err = cart.AddMembershipFee(valueobject.NewMoneyEURFromFloat(16.00))
		require.Error(t, err)
		assert.Empty(t, cart.Lines)
	})

	t.Run("accepts the bounds themselves", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddMembershipFee(valueobject.NewMoneyEURFromFloat(5.00))
		require.NoError(t, err)
	})

	t.Run("refuses a second fee line", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddMembershipFee(valueobject.NewMoneyEURFromFloat(10.00))
		require.NoError(t, err)
		_, err = cart.AddMembershipFee(valueobject.NewMoneyEURFromFloat(12.00))
		require.Error(t, err)

		count := 0
		for _, line := range cart.Lines {
			if line.IsMembershipFee {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("synchronizes the first payment line to the new total", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddProduct(productRef("Sucre", 2.00))
		require.NoError(t, err)
		cart.AddPaymentLine()
		require.NoError(t, cart.SetPayment(0, PaymentCash, decimal.NewFromInt(2)))

		_, err = cart.AddMembershipFee(valueobject.NewMoneyEURFromFloat(10.00))
		require.NoError(t, err)

		assert.Equal(t, "12.00", cart.Payments[0].Amount.StringFixed(2))
	})

	t.Run("creates the first payment line when none exists", func(t *testing.T) {
		cart := NewCart()
		_, err := cart.AddMembershipFee(valueobject.NewMoneyEURFromFloat(8.00))
		require.NoError(t, err)
		require.Len(t, cart.Payments, 1)
		assert.Equal(t, "8.00", cart.Payments[0].Amount.StringFixed(2))
	})
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	member := uuid.New()
	cart.SetMember(&member)
	_, err := cart.AddProduct(productRef("x", 1))
	require.NoError(t, err)
	cart.AddPaymentLine()

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Nil(t, cart.MemberID)
	assert.Empty(t, cart.Payments)
}
