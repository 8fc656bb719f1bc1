package pricing

import "github.com/shopspring/decimal"

// OtherGroup is the sentinel discount group for categories that are not
// listed under any configured group.
const OtherGroup = "Other"

// GroupMapping assigns a set of catalog categories to one named discount group.
type GroupMapping struct {
	Group      string   `json:"group"`
	Categories []string `json:"categories"`
}

// DiscountGroups is the ordered category-to-group configuration. Order
// matters: when a category is listed under more than one group the first
// match wins.
type DiscountGroups []GroupMapping

// Resolve returns the discount group for a category. It is total over all
// strings; a category absent from every group resolves to OtherGroup.
func (g DiscountGroups) Resolve(category string) string {
	for _, m := range g {
		for _, c := range m.Categories {
			if c == category {
				return m.Group
			}
		}
	}
	return OtherGroup
}

// Names returns the configured group names in order, with OtherGroup appended.
func (g DiscountGroups) Names() []string {
	names := make([]string, 0, len(g)+1)
	for _, m := range g {
		names = append(names, m.Group)
	}
	return append(names, OtherGroup)
}

// DiscountSpec maps a discount group name to a percentage in [0, 100]. It is
// built fresh per request by the caller, which owns range validation; the
// engine applies whatever it is handed.
type DiscountSpec map[string]decimal.Decimal

// EffectivePercent looks up the percentage offered for a group. A group
// missing from the spec means no discount was offered, not an error.
func (s DiscountSpec) EffectivePercent(group string) decimal.Decimal {
	if pct, ok := s[group]; ok {
		return pct
	}
	return decimal.Zero
}
