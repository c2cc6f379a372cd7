package caisse

import (
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod is one of the in-store payment modes
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "especes"
	PaymentCheque   PaymentMethod = "cheque"
	PaymentCard     PaymentMethod = "carte"
	PaymentTransfer PaymentMethod = "virement"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCheque, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// PaymentLine is one entry of a split payment. A line with a zero
// amount is ignored at checkout; a line with a positive amount must
// carry a method.
type PaymentLine struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// AddPaymentLine appends an empty payment entry and returns its index
func (c *Cart) AddPaymentLine() int {
	c.Payments = append(c.Payments, PaymentLine{})
	return len(c.Payments) - 1
}

// SetPayment updates the payment entry at index i
func (c *Cart) SetPayment(i int, method PaymentMethod, amount decimal.Decimal) error {
	if i < 0 || i >= len(c.Payments) {
		return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment line not found")
	}
	if method != "" && !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount cannot be negative")
	}

	c.Payments[i].Method = method
	c.Payments[i].Amount = amount.Round(2)
	return nil
}

// RemovePayment deletes the payment entry at index i
func (c *Cart) RemovePayment(i int) error {
	if i < 0 || i >= len(c.Payments) {
		return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment line not found")
	}
	c.Payments = append(c.Payments[:i], c.Payments[i+1:]...)
	return nil
}

// TotalPaid sums the entered payment amounts
func (c *Cart) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Payments {
		total = total.Add(p.Amount)
	}
	return total.Round(2)
}

// Remaining returns total minus paid. Negative means change is due.
func (c *Cart) Remaining() decimal.Decimal {
	return c.Total().Sub(c.TotalPaid())
}

// RemainingMoney returns the remaining balance as Money
func (c *Cart) RemainingMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(c.Remaining())
}

// CanCheckout reports whether the sale may be validated: payments must
// cover the total and every entry with a positive amount must carry a
// selected method, even when the sum already suffices.
func (c *Cart) CanCheckout() bool {
	if c.IsEmpty() {
		return false
	}
	if c.TotalPaid().LessThan(c.Total()) {
		return false
	}
	for _, p := range c.Payments {
		if p.Amount.IsPositive() && p.Method == "" {
			return false
		}
	}
	return true
}

// EffectivePayments returns the payment entries that will be recorded
// at checkout: positive amounts with a selected method.
func (c *Cart) EffectivePayments() []PaymentLine {
	out := make([]PaymentLine, 0, len(c.Payments))
	for _, p := range c.Payments {
		if p.Amount.IsPositive() && p.Method != "" {
			out = append(out, p)
		}
	}
	return out
}
