package caisse

import (
	"fmt"
	"strings"

	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/epicoop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one line of an in-progress sale.
// ProductID is nil for manually entered lines (refunds, membership fees).
type CartLine struct {
	ProductID       *uuid.UUID      `json:"product_id"`
	Label           string          `json:"label"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Unit            string          `json:"unit"`
	IsRefund        bool            `json:"is_refund"`
	IsMembershipFee bool            `json:"is_membership_fee"`
}

// Amount returns the line amount rounded to the cent.
// Rounding happens per line, before summation; the cart total rounds
// again after summing. Both steps are part of the pricing contract.
func (l CartLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice).Round(2)
}

// AmountMoney returns the line amount as Money
func (l CartLine) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(l.Amount())
}

// ProductRef carries the product attributes the cashier cart needs.
// The caisse context does not reach into the catalog aggregate; the
// application layer maps catalog products into refs.
type ProductRef struct {
	ID        uuid.UUID
	Label     string
	UnitPrice decimal.Decimal
	Unit      string
	Increment decimal.Decimal // minimum order increment
	Barcode   string
}

// Membership fee bounds, inclusive, in euros.
var (
	membershipFeeMin = decimal.NewFromInt(5)
	membershipFeeMax = decimal.NewFromInt(15)
)

// Cart holds the lines and payment entries of one sale in progress.
// It is a pure in-memory structure: persistence happens either as a
// draft snapshot or as a recorded Sale at checkout.
type Cart struct {
	MemberID *uuid.UUID    `json:"member_id"`
	Lines    []CartLine    `json:"lines"`
	Payments []PaymentLine `json:"payments"`
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{
		Lines:    make([]CartLine, 0),
		Payments: make([]PaymentLine, 0),
	}
}

// SetMember associates the cart with a cooperative member
func (c *Cart) SetMember(memberID *uuid.UUID) {
	c.MemberID = memberID
}

// AddProduct adds a product to the cart. If a line for the product
// already exists its quantity is incremented by the product's minimum
// order increment, otherwise a new line is appended at that increment.
// Returns the index of the affected line.
func (c *Cart) AddProduct(p ProductRef) (int, error) {
	if p.ID == uuid.Nil {
		return 0, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	increment := p.Increment
	if increment.LessThanOrEqual(decimal.Zero) {
		increment = decimal.NewFromInt(1)
	}

	for idx := range c.Lines {
		if c.Lines[idx].ProductID != nil && *c.Lines[idx].ProductID == p.ID {
			c.Lines[idx].Quantity = c.Lines[idx].Quantity.Add(increment)
			c.capRefunds()
			return idx, nil
		}
	}

	id := p.ID
	c.Lines = append(c.Lines, CartLine{
		ProductID: &id,
		Label:     p.Label,
		Quantity:  increment,
		UnitPrice: p.UnitPrice,
		Unit:      p.Unit,
	})
	return len(c.Lines) - 1, nil
}

// NormalizeBarcode trims and strips all whitespace from a barcode so
// that scanner input matches barcodes stored with grouping spaces.
func NormalizeBarcode(code string) string {
	return strings.Join(strings.Fields(code), "")
}

// AddByBarcode matches the scanned code against the given products
// (whitespace-insensitive exact match) and delegates to AddProduct.
func (c *Cart) AddByBarcode(code string, products []ProductRef) (int, error) {
	normalized := NormalizeBarcode(code)
	if normalized == "" {
		return 0, shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}

	for _, p := range products {
		if p.Barcode == "" {
			continue
		}
		if NormalizeBarcode(p.Barcode) == normalized {
			return c.AddProduct(p)
		}
	}

	return 0, shared.NewDomainError("BARCODE_NOT_FOUND", fmt.Sprintf("No product with barcode %s", normalized))
}

// SetQuantity updates the quantity of the line at index i.
// Non-positive quantities are rejected. Refund capping re-runs after
// the change since the product total may have shrunk.
func (c *Cart) SetQuantity(i int, quantity decimal.Decimal) error {
	if i < 0 || i >= len(c.Lines) {
		return shared.NewDomainError("LINE_NOT_FOUND", "Cart line not found")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	c.Lines[i].Quantity = quantity
	c.capRefunds()
	return nil
}

// RemoveLine deletes the line at index i. When the removed line was
// not a refund the product total shrank, so refund capping re-runs.
func (c *Cart) RemoveLine(i int) error {
	if i < 0 || i >= len(c.Lines) {
		return shared.NewDomainError("LINE_NOT_FOUND", "Cart line not found")
	}

	wasRefund := c.Lines[i].IsRefund
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	if !wasRefund {
		c.capRefunds()
	}
	return nil
}

// AddRefund appends a negative-priced "avoir" line. The amount is
// clamped to the currently available allowance (product total minus
// existing refunds); a clamped refund records both the requested and
// the granted amount in its label. Returns the index of the new line.
func (c *Cart) AddRefund(amount valueobject.Money, comment string) (int, error) {
	requested := amount.Amount().Round(2)
	if requested.LessThanOrEqual(decimal.Zero) {
		return 0, shared.NewDomainError("INVALID_REFUND", "Refund amount must be positive")
	}

	allowance := c.refundAllowance()
	if allowance.LessThanOrEqual(decimal.Zero) {
		return 0, shared.NewDomainError("NO_REFUND_ALLOWANCE", "No amount left to refund against")
	}

	granted := requested
	if granted.GreaterThan(allowance) {
		granted = allowance
	}

	label := refundLabel(comment, requested, granted)
	c.Lines = append(c.Lines, CartLine{
		Label:     label,
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: granted.Neg(),
		IsRefund:  true,
	})
	return len(c.Lines) - 1, nil
}

// AddMembershipFee appends the yearly membership fee line. The amount
// must lie in [5,15] euros and at most one fee line may exist. The
// first payment line is synchronized to the new total so the cashier
// screen shows the right figure to collect.
func (c *Cart) AddMembershipFee(amount valueobject.Money) (int, error) {
	fee := amount.Amount().Round(2)
	if fee.LessThan(membershipFeeMin) || fee.GreaterThan(membershipFeeMax) {
		return 0, shared.NewDomainError("INVALID_FEE", "Membership fee must be between 5 and 15 euros")
	}
	for _, line := range c.Lines {
		if line.IsMembershipFee {
			return 0, shared.NewDomainError("FEE_ALREADY_PRESENT", "Cart already contains a membership fee line")
		}
	}

	c.Lines = append(c.Lines, CartLine{
		Label:           "Adhésion",
		Quantity:        decimal.NewFromInt(1),
		UnitPrice:       fee,
		IsMembershipFee: true,
	})

	if len(c.Payments) == 0 {
		c.Payments = append(c.Payments, PaymentLine{})
	}
	c.Payments[0].Amount = c.Total()

	return len(c.Lines) - 1, nil
}

// Total returns the cart total: every line amount is rounded to the
// cent before summing, then the sum is rounded again.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Amount())
	}
	return total.Round(2)
}

// TotalMoney returns the cart total as Money
func (c *Cart) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(c.Total())
}

// ArticleCount returns the number of lines (not the summed quantity)
func (c *Cart) ArticleCount() int {
	return len(c.Lines)
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clear removes all lines, payments and the member association
func (c *Cart) Clear() {
	c.MemberID = nil
	c.Lines = make([]CartLine, 0)
	c.Payments = make([]PaymentLine, 0)
}

// productTotal sums the non-refund line amounts, rounded to the cent
func (c *Cart) productTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		if line.IsRefund {
			continue
		}
		total = total.Add(line.Amount())
	}
	return total.Round(2)
}

// refundTotal sums the absolute refund line amounts
func (c *Cart) refundTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		if line.IsRefund {
			total = total.Add(line.Amount().Abs())
		}
	}
	return total.Round(2)
}

// refundAllowance returns the amount still refundable
func (c *Cart) refundAllowance() decimal.Decimal {
	allowance := c.productTotal().Sub(c.refundTotal())
	if allowance.IsNegative() {
		return decimal.Zero
	}
	return allowance
}

// capRefunds enforces the invariant that the refund lines never exceed
// the product total. When they do, each refund line is shrunk in list
// order to consume only the remaining allowance; shrunk lines get the
// granted amount appended to their label and zero-value refunds are
// dropped.
func (c *Cart) capRefunds() {
	if c.refundTotal().LessThanOrEqual(c.productTotal()) {
		return
	}

	allowance := c.productTotal()
	kept := c.Lines[:0]
	for _, line := range c.Lines {
		if !line.IsRefund {
			kept = append(kept, line)
			continue
		}

		amount := line.Amount().Abs()
		if amount.LessThanOrEqual(allowance) {
			allowance = allowance.Sub(amount)
			kept = append(kept, line)
			continue
		}

		granted := allowance
		allowance = decimal.Zero
		if granted.IsZero() {
			continue // refund fully consumed, drop the line
		}

		line.Label = limitRefundLabel(line.Label, granted)
		line.Quantity = decimal.NewFromInt(1)
		line.UnitPrice = granted.Neg()
		kept = append(kept, line)
	}
	c.Lines = kept
}

// refundLabel builds the label of a new refund line
func refundLabel(comment string, requested, granted decimal.Decimal) string {
	if granted.LessThan(requested) {
		return fmt.Sprintf("Avoir: %s (initial: %s€, limité à: %s€)",
			comment, requested.StringFixed(2), granted.StringFixed(2))
	}
	return fmt.Sprintf("Avoir: %s (initial: %s€)", comment, requested.StringFixed(2))
}

// limitRefundLabel rewrites a refund label after capping, replacing a
// previous "limité à" annotation when present so the initial amount is
// recorded exactly once.
func limitRefundLabel(label string, granted decimal.Decimal) string {
	suffix := fmt.Sprintf(", limité à: %s€)", granted.StringFixed(2))
	if idx := strings.LastIndex(label, ", limité à:"); idx >= 0 {
		return label[:idx] + suffix
	}
	if strings.HasSuffix(label, ")") {
		return strings.TrimSuffix(label, ")") + suffix
	}
	return label + fmt.Sprintf(" (limité à: %s€)", granted.StringFixed(2))
}
