package promo

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Registry holds the fixed promotion catalog, looked up by deal id.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry validates and indexes the given rules. Malformed definitions
// (duplicate ids, negative implant quantities) are configuration errors and
// fail startup rather than surfacing at request time.
func NewRegistry(rules []Rule) (*Registry, error) {
	byID := make(map[string]Rule, len(rules))
	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("promo: rule %q has no id", r.Name)
		}
		if _, ok := byID[r.ID]; ok {
			return nil, fmt.Errorf("promo: duplicate rule id %s", r.ID)
		}
		if r.ImplantQty < 0 {
			return nil, fmt.Errorf("promo: rule %s has negative implant quantity", r.ID)
		}
		if r.NeedsImplantType && r.ImplantQty == 0 {
			return nil, fmt.Errorf("promo: rule %s requires an implant type but no implants", r.ID)
		}
		byID[r.ID] = r
	}
	return &Registry{rules: rules, byID: byID}, nil
}

// Find looks up a rule by deal id.
func (r *Registry) Find(id string) (Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// List returns all rules in definition order.
func (r *Registry) List() []Rule {
	return r.rules
}

// Len reports the number of registered promotions.
func (r *Registry) Len() int {
	return len(r.rules)
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// DefaultRules is the 2026 promotion catalog: the new-surgical-start implant
// commitment tiers, capital equipment bundles at negotiated fixed prices,
// and trade-in rebate deals.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:               "nss-25",
			Name:             "New Surgical Start - 25 Implants",
			ImplantQty:       25,
			NeedsDiscount:    true,
			NeedsImplantType: true,
			Extras: []ExtraItem{
				{ID: "87294", Description: "NobelActive PureSet surgical kit (free with commitment)", Price: d(0), ListPrice: d(6119)},
			},
		},
		{
			ID:               "nss-50",
			Name:             "New Surgical Start - 50 Implants",
			ImplantQty:       50,
			NeedsDiscount:    true,
			NeedsImplantType: true,
			Extras: []ExtraItem{
				{ID: "87294", Description: "NobelActive PureSet surgical kit (free with commitment)", Price: d(0), ListPrice: d(6119)},
				{ID: "87301", Description: "Prosthetic PureSet Basic (free with commitment)", Price: d(0), ListPrice: d(2043)},
			},
		},
		{
			ID:               "nss-75",
			Name:             "New Surgical Start - 75 Implants",
			ImplantQty:       75,
			NeedsDiscount:    true,
			NeedsImplantType: true,
			Extras: []ExtraItem{
				{ID: "87294", Description: "NobelActive PureSet surgical kit (free with commitment)", Price: d(0), ListPrice: d(6119)},
				{ID: "87353", Description: "Prosthetic PureSet Full (free with commitment)", Price: d(0), ListPrice: d(2846)},
				{ID: "87303", Description: "Drill Stop Kit (free with commitment)", Price: d(0), ListPrice: d(1087)},
			},
		},
		{
			ID:               "nss-100",
			Name:             "New Surgical Start - 100 Implants",
			ImplantQty:       100,
			NeedsDiscount:    true,
			NeedsImplantType: true,
			Extras: []ExtraItem{
				{ID: "87294", Description: "NobelActive PureSet surgical kit (free with commitment)", Price: d(0), ListPrice: d(6119)},
				{ID: "87353", Description: "Prosthetic PureSet Full (free with commitment)", Price: d(0), ListPrice: d(2846)},
				{ID: "87289", Description: "OsseoSet 300 surgical motor (free with commitment)", Price: d(0), ListPrice: d(9728)},
			},
		},
		{
			ID:               "xguide-25",
			Name:             "X-Guide Navigation Bundle - 25 Implants",
			ImplantQty:       25,
			NeedsDiscount:    true,
			NeedsImplantType: true,
			EquipmentID:      "XG-100",
			EquipmentName:    "X-Guide Dynamic 3D Navigation System",
			EquipmentPrice:   d(25000),
			EquipmentList:    d(60399),
		},
		{
			ID:               "xguide-50",
			Name:             "X-Guide Navigation Bundle - 50 Implants",
			ImplantQty:       50,
			NeedsDiscount:    true,
			NeedsImplantType: true,
			EquipmentID:      "XG-100",
			EquipmentName:    "X-Guide Dynamic 3D Navigation System",
			EquipmentPrice:   d(19500),
			EquipmentList:    d(60399),
			Extras: []ExtraItem{
				{ID: "87467", Description: "Guided Twist Step Drills 7-18mm (free)", Price: d(0), ListPrice: d(693)},
			},
		},
		{
			ID:            "dexis-cbct",
			Name:          "DEXIS OP 3D CBCT Unit",
			EquipmentID:   "OP3D-PRO",
			EquipmentName: "DEXIS OP 3D Pro CBCT",
			// No percentage discount: the bundle price is the deal.
			EquipmentPrice: d(74900),
			EquipmentList:  d(89995),
		},
		{
			ID:             "dexis-cbct-trade",
			Name:           "DEXIS OP 3D CBCT Unit with Trade-In",
			EquipmentID:    "OP3D-PRO",
			EquipmentName:  "DEXIS OP 3D Pro CBCT",
			EquipmentPrice: d(74900),
			EquipmentList:  d(89995),
			Extras: []ExtraItem{
				{ID: "CBCT-TRADE", Description: "Competitive CBCT trade-in credit", Price: d(-30000), ListPrice: d(0)},
			},
		},
		{
			ID:               "dexis-cbct-100",
			Name:             "DEXIS OP 3D CBCT with 100 Implant Commitment",
			ImplantQty:       100,
			NeedsDiscount:    true,
			NeedsImplantType: true,
			EquipmentID:      "OP3D-PRO",
			EquipmentName:    "DEXIS OP 3D Pro CBCT",
			EquipmentPrice:   d(59900),
			EquipmentList:    d(89995),
			Extras: []ExtraItem{
				{ID: "CBCT-TRADE", Description: "Competitive CBCT trade-in credit", Price: d(-30000), ListPrice: d(0)},
			},
		},
		{
			ID:             "trios-scanner",
			Name:           "3Shape TRIOS 5 Intraoral Scanner",
			EquipmentID:    "TRIOS5",
			EquipmentName:  "3Shape TRIOS 5 Wireless Scanner",
			EquipmentPrice: d(27500),
			EquipmentList:  d(34900),
		},
		{
			ID:               "trios-25",
			Name:             "3Shape TRIOS 5 with 25 Implant Commitment",
			ImplantQty:       25,
			NeedsDiscount:    true,
			NeedsImplantType: true,
			EquipmentID:      "TRIOS5",
			EquipmentName:    "3Shape TRIOS 5 Wireless Scanner",
			EquipmentPrice:   d(21900),
			EquipmentList:    d(34900),
		},
		{
			ID:             "sprintray-lab",
			Name:           "SprintRay Pro 2 Chairside Lab",
			EquipmentID:    "SR-PRO2",
			EquipmentName:  "SprintRay Pro 2 3D Printing Lab",
			EquipmentPrice: d(17995),
			EquipmentList:  d(22990),
			Extras: []ExtraItem{
				{ID: "SR-RESIN", Description: "Starter resin package (free)", Price: d(0), ListPrice: d(1250)},
			},
		},
		{
			ID:               "zygoma-start",
			Name:             "NobelZygoma Program Start - 10 Implants",
			ImplantQty:       10,
			NeedsDiscount:    true,
			NeedsImplantType: false,
			Extras: []ExtraItem{
				{ID: "108236", Description: "NobelZygoma PureSet TiUltra (free with commitment)", Price: d(0), ListPrice: d(7434)},
			},
		},
		{
			ID:         "n1-evaluation",
			Name:       "N1 System Evaluation - 20 Implants at List",
			ImplantQty: 20,
			// Evaluation pricing is at list by policy; no discount choice.
			NeedsDiscount:    false,
			NeedsImplantType: true,
			Extras: []ExtraItem{
				{ID: "87293", Description: "N1 PureSet surgical kit (free during evaluation)", Price: d(0), ListPrice: d(7127)},
			},
		},
	}
}
