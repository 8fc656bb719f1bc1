package promo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/proposal-api/internal/pricing"
)

// Component is one instrument inside a kit bill of materials.
type Component struct {
	Article     string          `json:"article"`
	Qty         int             `json:"qty"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Kit is a surgical tray bundle priced at the BOM level. BOMPrice covers the
// base configuration; AddonPrice covers the instruments not included in the
// base BOM; CompletePrice is always BOMPrice + AddonPrice.
type Kit struct {
	BOM             string          `json:"bom"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	BOMPrice        decimal.Decimal `json:"bomPrice"`
	AddonPrice      decimal.Decimal `json:"addonPrice"`
	CompletePrice   decimal.Decimal `json:"completePrice"`
	Notes           string          `json:"notes,omitempty"`
	BaseComponents  []Component     `json:"baseComponents,omitempty"`
	AddonComponents []Component     `json:"addonComponents,omitempty"`
}

// Expand turns a kit into proposal line items. Kits sell at BOM price with no
// percentage discount, so the lines are fixed-price at their list value.
func (k Kit) Expand(includeAddons bool) []pricing.LineItem {
	lines := []pricing.LineItem{
		pricing.FixedLine(k.BOM, k.Name+" (base configuration)", "Surgical Kits", k.BOMPrice, k.BOMPrice, 1),
	}
	if includeAddons && k.AddonPrice.IsPositive() {
		lines = append(lines, pricing.FixedLine(k.BOM+"-addons", k.Name+" (add-on instruments)", "Surgical Kits", k.AddonPrice, k.AddonPrice, 1))
	}
	return lines
}

// KitRegistry indexes kits by BOM number.
type KitRegistry struct {
	kits []Kit
	byID map[string]Kit
}

// NewKitRegistry validates and indexes kit definitions at startup.
func NewKitRegistry(kits []Kit) (*KitRegistry, error) {
	byID := make(map[string]Kit, len(kits))
	for _, k := range kits {
		if k.BOM == "" {
			return nil, fmt.Errorf("promo: kit %q has no BOM number", k.Name)
		}
		if _, ok := byID[k.BOM]; ok {
			return nil, fmt.Errorf("promo: duplicate kit BOM %s", k.BOM)
		}
		if !k.CompletePrice.Equal(k.BOMPrice.Add(k.AddonPrice)) {
			return nil, fmt.Errorf("promo: kit %s complete price %s does not match bom %s + addon %s",
				k.BOM, k.CompletePrice, k.BOMPrice, k.AddonPrice)
		}
		byID[k.BOM] = k
	}
	return &KitRegistry{kits: kits, byID: byID}, nil
}

// Find looks up a kit by BOM number.
func (r *KitRegistry) Find(bom string) (Kit, bool) {
	kit, ok := r.byID[bom]
	return kit, ok
}

// List returns all kits in definition order.
func (r *KitRegistry) List() []Kit {
	return r.kits
}

// DefaultKits is the 2026 PureSet kit breakdown at official BOM prices.
// Component detail is carried where the sales team quotes at instrument
// level; combo and legacy kits are quoted at BOM level only.
func DefaultKits() []Kit {
	return []Kit{
		{
			BOM: "87294", Name: "NobelActive PureSet", Category: "surgical",
			BOMPrice: d(3884), AddonPrice: d(2235), CompletePrice: d(6119),
			Notes: "Not included in base: Bone Mills, Twist Step Drills, Screw Taps",
			BaseComponents: []Component{
				{Article: "PUR0200", Qty: 1, Description: "NobAct/NobPrl CC PureSet Tray", Price: d(1247)},
				{Article: "36773", Qty: 1, Description: "Implant Driver CC 3.0 28mm", Price: d(117)},
				{Article: "36774", Qty: 1, Description: "Implant Driver CC 3.0 37mm", Price: d(117)},
				{Article: "34584", Qty: 1, Description: "NobelActive Man Torque Wrench Surgical", Price: d(777)},
				{Article: "29149", Qty: 1, Description: "Screwdriver Manual UniGrip 28 mm", Price: d(128)},
				{Article: "32112", Qty: 4, Description: "Direction Indicator 2/2.4-2.8mm", Price: d(216)},
				{Article: "37791", Qty: 1, Description: "Depth Probe 7-18mm Z-shaped", Price: d(227)},
			},
			AddonComponents: []Component{
				{Article: "36118", Qty: 1, Description: "Precision drill", Price: d(69)},
				{Article: "32261", Qty: 1, Description: "Twist Step Drill 2.4/2.8 7-15mm", Price: d(77)},
				{Article: "36816", Qty: 1, Description: "Screw Tap NobelActive 3.0", Price: d(251)},
				{Article: "KI589B.204.", Qty: 1, Description: "Shank extension", Price: d(70)},
			},
		},
		{
			BOM: "87295", Name: "NobelParallel CC PureSet", Category: "surgical",
			BOMPrice: d(3344), AddonPrice: d(1445), CompletePrice: d(4789),
			Notes: "Not included in base: Bone Mills, Twist Step Drills, Screw Taps",
		},
		{
			BOM: "87296", Name: "NobelReplace CC PureSet", Category: "surgical",
			BOMPrice: d(8813), AddonPrice: d(0), CompletePrice: d(8813),
			Notes: "Complete kit - all drills included in base BOM",
		},
		{
			BOM: "87469", Name: "NobelActive/NobelParallel CC Combo PureSet", Category: "surgical",
			BOMPrice: d(7721), AddonPrice: d(0), CompletePrice: d(7721),
			Notes: "Combo kit - includes all drills and screw taps for both systems",
		},
		{
			BOM: "87293", Name: "N1 PureSet", Category: "surgical",
			BOMPrice: d(2775), AddonPrice: d(4352), CompletePrice: d(7127),
			Notes: "Not included in base: OsseoDirectors, OsseoShaper 2s, Twist Drills, Bone Mills",
		},
		{
			BOM: "87305", Name: "NobelActive Guided PureSet", Category: "guided",
			BOMPrice: d(7533), AddonPrice: d(6237), CompletePrice: d(13770),
			Notes: "Not included in base: Guided Twist Step Drills, Screw Taps, WP Components",
		},
		{
			BOM: "87306", Name: "NobelParallel CC Guided PureSet", Category: "guided",
			BOMPrice: d(6905), AddonPrice: d(6105), CompletePrice: d(13010),
			Notes: "Not included in base: Guided Twist Step Drills, Screw Taps, WP Components",
		},
		{
			BOM: "87307", Name: "NobelReplace CC Guided PureSet", Category: "guided",
			BOMPrice: d(11543), AddonPrice: d(5138), CompletePrice: d(16681),
			Notes: "Not included in base: WP Drills or Components",
		},
		{
			BOM: "108236", Name: "NobelZygoma PureSet (TiUltra)", Category: "zygomatic",
			BOMPrice: d(7434), AddonPrice: d(0), CompletePrice: d(7434),
			Notes: "Includes all tooling for 45 and 0 degree configurations",
		},
		{
			BOM: "87297", Name: "NobelSpeedy Groovy PureSet", Category: "legacy",
			BOMPrice: d(4101), AddonPrice: d(1405), CompletePrice: d(5506),
			Notes: "Not included in base: Bone Mills, Twist Step Drills, Screw Taps",
		},
		{
			BOM: "87298", Name: "Branemark System PureSet", Category: "legacy",
			BOMPrice: d(3231), AddonPrice: d(1341), CompletePrice: d(4572),
			Notes: "Not included in base: Bone Mills, Twist Step Drills, Screw Taps",
		},
		{
			BOM: "301267", Name: "NobelPearl Tapered Surgery Kit", Category: "nobelpearl",
			BOMPrice: d(3845), AddonPrice: d(0), CompletePrice: d(3845),
			Notes: "Complete surgery kit - all drills and instruments included",
		},
		{
			BOM: "87301", Name: "Prosthetic PureSet Basic", Category: "prosthetic",
			BOMPrice: d(2043), AddonPrice: d(0), CompletePrice: d(2043),
			Notes: "Tooling appropriate for CC and legacy systems",
		},
		{
			BOM: "87353", Name: "Prosthetic PureSet (Full)", Category: "prosthetic",
			BOMPrice: d(2846), AddonPrice: d(0), CompletePrice: d(2846),
			Notes: "Tooling appropriate for all Nobel systems",
		},
	}
}
