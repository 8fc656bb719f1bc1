package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Snapshot is the value copy of a catalog product taken at resolution time.
// Lines never hold a live reference back into the catalog.
type Snapshot struct {
	ID          string
	Description string
	Category    string
	ListPrice   decimal.Decimal
}

// LineItem is one priced entry in a proposal. UnitPrice is fixed at
// construction; it is never re-derived from the discount later.
type LineItem struct {
	ProductID       string          `json:"id"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Quantity        int             `json:"quantity"`
	ListPrice       decimal.Decimal `json:"listPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	UnitPrice       decimal.Decimal `json:"discountedUnitPrice"`
	FixedPrice      bool            `json:"fixedPrice"`
}

// ListSubtotal returns list price times quantity.
func (li LineItem) ListSubtotal() decimal.Decimal {
	return li.ListPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Subtotal returns the discounted unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// PriceLine builds a percentage-discounted line item.
//
// The unit price is listPrice * (1 - percent/100), kept at full precision;
// rounding to display cents happens at render time only. The percent is not
// clamped here: validating the range is the caller's job, and an out-of-range
// value deliberately produces a negative unit price rather than an error.
func PriceLine(s Snapshot, qty int, percent decimal.Decimal) LineItem {
	unit := s.ListPrice.Mul(decimal.NewFromInt(1).Sub(percent.Div(hundred)))
	return LineItem{
		ProductID:       s.ID,
		Description:     s.Description,
		Category:        s.Category,
		Quantity:        qty,
		ListPrice:       s.ListPrice,
		DiscountPercent: percent,
		UnitPrice:       unit,
	}
}

// FixedLine builds a line whose unit price is supplied directly instead of
// being derived from a percentage. Promotions use this for equipment bundles
// and for extra items, where the unit price may be zero (a free item) or
// negative (a rebate/credit). The percent field stays zero for display.
func FixedLine(id, description, category string, listPrice, unitPrice decimal.Decimal, qty int) LineItem {
	return LineItem{
		ProductID:   id,
		Description: description,
		Category:    category,
		Quantity:    qty,
		ListPrice:   listPrice,
		UnitPrice:   unitPrice,
		FixedPrice:  true,
	}
}

// Proposal aggregates a sequence of line items.
type Proposal struct {
	Lines          []LineItem      `json:"items"`
	ListTotal      decimal.Decimal `json:"listTotal"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// Aggregate sums list and discounted subtotals over the given lines.
//
// DiscountAmount is ListTotal - FinalTotal by construction, so the identity
// holds exactly regardless of line mix. A negative DiscountAmount (net rebates
// exceeding the list total) is valid output and is not clamped. An empty input
// aggregates to a zero-valued Proposal; rejecting an empty cart is the
// caller's decision, not the engine's.
func Aggregate(lines []LineItem) Proposal {
	listTotal := decimal.Zero
	finalTotal := decimal.Zero
	for _, li := range lines {
		listTotal = listTotal.Add(li.ListSubtotal())
		finalTotal = finalTotal.Add(li.Subtotal())
	}
	return Proposal{
		Lines:          lines,
		ListTotal:      listTotal,
		FinalTotal:     finalTotal,
		DiscountAmount: listTotal.Sub(finalTotal),
	}
}

// DiscountPercentOfTotal derives the blended discount for display. It reports
// zero when the list total is zero (an all-free-item proposal) instead of
// dividing by zero.
func (p Proposal) DiscountPercentOfTotal() decimal.Decimal {
	if p.ListTotal.IsZero() {
		return decimal.Zero
	}
	return p.DiscountAmount.Div(p.ListTotal).Mul(hundred)
}
