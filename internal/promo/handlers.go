package promo

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/proposal-api/internal/common"
)

// Handler exposes the promotion and kit registries over HTTP.
type Handler struct {
	Promos *Registry
	Kits   *KitRegistry
}

// Promotions lists every promotion definition.
func (h Handler) Promotions(w http.ResponseWriter, _ *http.Request) {
	if h.Promos == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion registry not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Promos.List()})
}

// Promotion returns one promotion by deal id.
func (h Handler) Promotion(w http.ResponseWriter, r *http.Request) {
	if h.Promos == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion registry not configured", nil)
		return
	}
	rule, ok := h.Promos.Find(chi.URLParam(r, "id"))
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "promotion not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rule})
}

// KitList lists every kit definition.
func (h Handler) KitList(w http.ResponseWriter, _ *http.Request) {
	if h.Kits == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "kit registry not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Kits.List()})
}

// Kit returns one kit by BOM number.
func (h Handler) Kit(w http.ResponseWriter, r *http.Request) {
	if h.Kits == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "kit registry not configured", nil)
		return
	}
	kit, ok := h.Kits.Find(chi.URLParam(r, "bom"))
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "kit not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": kit})
}
