package proposal

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/proposal-api/internal/pricing"
)

// LineRequest selects one catalog product. A zero quantity means "not
// selected" and is filtered out before pricing.
type LineRequest struct {
	ProductID string `json:"productId" validate:"required,max=40"`
	Qty       int    `json:"qty" validate:"gte=0"`
}

// CustomRequest is the typed form of an ad-hoc proposal. Group discounts are
// validated to [0,100] here at the boundary; the engine applies them without
// clamping.
type CustomRequest struct {
	AccountName string             `json:"accountName" validate:"required,max=120"`
	RepName     string             `json:"repName" validate:"max=120"`
	Notes       string             `json:"notes" validate:"max=2000"`
	Items       []LineRequest      `json:"items" validate:"required,min=1,dive"`
	Discounts   map[string]float64 `json:"discounts" validate:"omitempty,dive,gte=0,lte=100"`
}

func (r CustomRequest) discountSpec() pricing.DiscountSpec {
	spec := make(pricing.DiscountSpec, len(r.Discounts))
	for group, pct := range r.Discounts {
		spec[group] = decimal.NewFromFloat(pct)
	}
	return spec
}

// PromotionRequest applies one pre-defined deal. The chosen discount is
// capped at the promotion policy maximum before it reaches the engine.
type PromotionRequest struct {
	DealID           string  `json:"dealId" validate:"required,max=40"`
	AccountName      string  `json:"accountName" validate:"required,max=120"`
	RepName          string  `json:"repName" validate:"max=120"`
	Notes            string  `json:"notes" validate:"max=2000"`
	ImplantType      string  `json:"implantType" validate:"max=80"`
	ImplantUnitPrice float64 `json:"implantUnitPrice" validate:"gte=0"`
	DiscountPercent  float64 `json:"discountPercent" validate:"gte=0,lte=100"`
}

// KitRequest builds a kit quote from one or more PureSet BOM numbers.
type KitRequest struct {
	AccountName   string   `json:"accountName" validate:"required,max=120"`
	RepName       string   `json:"repName" validate:"max=120"`
	Notes         string   `json:"notes" validate:"max=2000"`
	BOMs          []string `json:"boms" validate:"required,min=1,dive,required"`
	IncludeAddons bool     `json:"includeAddons"`
}
