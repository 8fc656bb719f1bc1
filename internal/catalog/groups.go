package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/noah-isme/proposal-api/internal/pricing"
)

// DefaultDiscountGroups is the built-in category-to-group table used when no
// override file is configured. Capital equipment lines each form their own
// group because they are negotiated independently.
var DefaultDiscountGroups = pricing.DiscountGroups{
	{Group: "Implants", Categories: []string{
		"NobelActive TiUltra Implants",
		"NobelActive Implants",
		"Nobel Biocare N1 TiUltra Implants",
		"NobelParallel CC TiUltra Implants",
		"NobelReplace CC TiUltra Implants",
		"NobelPearl Ceramic Implants",
		"NobelZygoma Implants",
	}},
	{Group: "Abutments", Categories: []string{
		"Esthetic Abutments",
		"Multi-Unit Abutments",
		"Locator Abutments",
		"GoldAdapt Abutments",
	}},
	{Group: "Kits", Categories: []string{"Surgical Kits"}},
	{Group: "3Shape", Categories: []string{"Capital - 3Shape"}},
	{Group: "SprintRay", Categories: []string{"Capital - SprintRay"}},
	{Group: "DEXIS", Categories: []string{"Capital - DEXIS"}},
	{Group: "X-Guide", Categories: []string{"Capital - X-Guide"}},
	{Group: "iCAM", Categories: []string{"Capital - iCAM"}},
	{Group: "DTX", Categories: []string{"Capital - DTX"}},
}

// LoadDiscountGroups reads an ordered group mapping from a JSON array file.
// An empty path selects the defaults.
func LoadDiscountGroups(path string) (pricing.DiscountGroups, error) {
	if path == "" {
		return DefaultDiscountGroups, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read discount groups %s: %w", path, err)
	}
	var groups pricing.DiscountGroups
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("catalog: parse discount groups %s: %w", path, err)
	}
	for i, g := range groups {
		if g.Group == "" {
			return nil, fmt.Errorf("catalog: discount group entry %d has no name", i)
		}
		if g.Group == pricing.OtherGroup {
			return nil, fmt.Errorf("catalog: %q is reserved for unmapped categories", pricing.OtherGroup)
		}
	}
	return groups, nil
}
