package catalog

import (
	"net/http"

	"github.com/noah-isme/proposal-api/internal/common"
	"github.com/noah-isme/proposal-api/internal/pricing"
)

// Handler exposes the read-only catalog over HTTP.
type Handler struct {
	Store  *Store
	Groups pricing.DiscountGroups
}

type categoryPayload struct {
	Name          string    `json:"name"`
	DiscountGroup string    `json:"discountGroup"`
	Products      []Product `json:"products"`
}

// Catalog returns every category with its products and resolved discount
// group, in catalog file order.
func (h Handler) Catalog(w http.ResponseWriter, _ *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	categories := h.Store.Categories()
	payload := make([]categoryPayload, 0, len(categories))
	for _, cat := range categories {
		payload = append(payload, categoryPayload{
			Name:          cat.Name,
			DiscountGroup: h.Groups.Resolve(cat.Name),
			Products:      cat.Products,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": payload})
}

// DiscountGroups returns the ordered group configuration plus the full name
// list the proposal form renders discount fields for.
func (h Handler) DiscountGroups(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"groups": h.Groups,
			"names":  h.Groups.Names(),
		},
	})
}
