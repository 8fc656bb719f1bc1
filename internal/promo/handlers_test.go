package promo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/proposal-api/internal/promo"
)

func testPromoHandler(t *testing.T) promo.Handler {
	t.Helper()
	promos, err := promo.NewRegistry(promo.DefaultRules())
	require.NoError(t, err)
	kits, err := promo.NewKitRegistry(promo.DefaultKits())
	require.NoError(t, err)
	return promo.Handler{Promos: promos, Kits: kits}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPromotionsList(t *testing.T) {
	h := testPromoHandler(t)

	rec := httptest.NewRecorder()
	h.Promotions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/promotions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Greater(t, len(resp.Data), 10)
	require.Equal(t, "nss-25", resp.Data[0].ID)
}

func TestPromotionByID(t *testing.T) {
	h := testPromoHandler(t)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/promotions/xguide-25", nil), "id", "xguide-25")
	rec := httptest.NewRecorder()
	h.Promotion(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "X-Guide")
}

func TestPromotionNotFound(t *testing.T) {
	h := testPromoHandler(t)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/promotions/nope", nil), "id", "nope")
	rec := httptest.NewRecorder()
	h.Promotion(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKitByBOM(t *testing.T) {
	h := testPromoHandler(t)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/kits/87294", nil), "bom", "87294")
	rec := httptest.NewRecorder()
	h.Kit(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "NobelActive PureSet")
}

func TestKitNotFound(t *testing.T) {
	h := testPromoHandler(t)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/kits/0", nil), "bom", "0")
	rec := httptest.NewRecorder()
	h.Kit(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnconfiguredRegistries(t *testing.T) {
	rec := httptest.NewRecorder()
	promo.Handler{}.Promotions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/promotions", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
