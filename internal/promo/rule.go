package promo

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/proposal-api/internal/pricing"
)

// MaxDiscountPercent caps the rep-chosen discount on promotions that accept
// one. Standard discount, 40% max; ad-hoc custom proposals are deliberately
// not capped (rep-controlled pricing), which is a policy asymmetry to confirm
// with sales ops before changing.
var MaxDiscountPercent = decimal.NewFromInt(40)

// ExtraItem is an additional line a promotion attaches: a bundled accessory,
// a free item (zero price), or a rebate/credit (negative price).
type ExtraItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ListPrice   decimal.Decimal `json:"listPrice"`
}

// Rule is a static promotion definition. Rules are validated at registry
// construction and read-only afterwards.
type Rule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ImplantQty       int             `json:"implantQty"`
	NeedsDiscount    bool            `json:"needsDiscount"`
	NeedsImplantType bool            `json:"needsImplantType"`
	EquipmentID      string          `json:"equipmentId,omitempty"`
	EquipmentName    string          `json:"equipmentName,omitempty"`
	EquipmentPrice   decimal.Decimal `json:"equipmentPrice"`
	EquipmentList    decimal.Decimal `json:"equipmentListPrice"`
	Extras           []ExtraItem     `json:"extras,omitempty"`
}

// HasEquipment reports whether the rule carries a fixed-price equipment line.
func (r Rule) HasEquipment() bool {
	return r.EquipmentPrice.IsPositive() || r.EquipmentList.IsPositive()
}

// ApplyInput carries the caller-chosen parameters for a promotion.
// DiscountPercent must already be clamped to MaxDiscountPercent by the
// caller; Apply itself never clamps.
type ApplyInput struct {
	ImplantType      string
	ImplantUnitPrice decimal.Decimal
	DiscountPercent  decimal.Decimal
}

// ClampDiscount applies the promotion discount cap.
func ClampDiscount(pct decimal.Decimal) decimal.Decimal {
	if pct.GreaterThan(MaxDiscountPercent) {
		return MaxDiscountPercent
	}
	return pct
}

// Apply expands a promotion rule into priced line items, in fixed order:
// the implant commitment first, then the equipment bundle, then extras.
//
// The implant line is percentage-priced: the chosen discount when the rule
// allows one, otherwise list price. The equipment line is a fixed-price line
// because its price/list pair IS the discount. Extras pass through unchanged,
// including zero and negative prices.
func Apply(rule Rule, in ApplyInput) []pricing.LineItem {
	var lines []pricing.LineItem

	if rule.ImplantQty > 0 {
		percent := decimal.Zero
		if rule.NeedsDiscount {
			percent = in.DiscountPercent
		}
		snap := pricing.Snapshot{
			ID:          rule.ID + "-implants",
			Description: implantDescription(in.ImplantType),
			Category:    "Implants",
			ListPrice:   in.ImplantUnitPrice,
		}
		lines = append(lines, pricing.PriceLine(snap, rule.ImplantQty, percent))
	}

	if rule.HasEquipment() {
		lines = append(lines, pricing.FixedLine(
			rule.EquipmentID,
			rule.EquipmentName,
			"Equipment",
			rule.EquipmentList,
			rule.EquipmentPrice,
			1,
		))
	}

	for _, extra := range rule.Extras {
		lines = append(lines, pricing.FixedLine(
			extra.ID,
			extra.Description,
			"Promotion",
			extra.ListPrice,
			extra.Price,
			1,
		))
	}
	return lines
}

func implantDescription(implantType string) string {
	if implantType == "" {
		return "Implants"
	}
	return implantType + " Implants"
}
