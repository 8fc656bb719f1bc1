package proposal

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/proposal-api/internal/catalog"
	"github.com/noah-isme/proposal-api/internal/common"
	"github.com/noah-isme/proposal-api/internal/promo"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testService(t *testing.T) *Service {
	t.Helper()
	store, err := catalog.NewStore([]catalog.Category{
		{Name: "NobelActive TiUltra Implants", Products: []catalog.Product{
			{ID: "N615", Description: "NobelActive TiUltra RP 4.3x10", Price: dec("615")},
		}},
		{Name: "Regenerative - Grafting", Products: []catalog.Product{
			{ID: "N4510BA", Description: "creos xenogain collagen 5x10mm", Price: dec("84")},
		}},
	})
	require.NoError(t, err)

	promos, err := promo.NewRegistry(promo.DefaultRules())
	require.NoError(t, err)
	kits, err := promo.NewKitRegistry(promo.DefaultKits())
	require.NoError(t, err)

	return &Service{
		Store:  store,
		Groups: catalog.DefaultDiscountGroups,
		Promos: promos,
		Kits:   kits,
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
	}
}

func TestBuildCustomPricesByGroup(t *testing.T) {
	svc := testService(t)

	doc, err := svc.BuildCustom(CustomRequest{
		AccountName: "Acme Dental",
		Items: []LineRequest{
			{ProductID: "N615", Qty: 10},
			{ProductID: "N4510BA", Qty: 2},
		},
		Discounts: map[string]float64{"Implants": 40, "Other": 25},
	})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)

	// Implants at 40%: 615 -> 369; grafting resolves to Other at 25%: 84 -> 63.
	require.True(t, doc.Lines[0].UnitPrice.Equal(dec("369")))
	require.True(t, doc.Lines[1].UnitPrice.Equal(dec("63")))
	require.True(t, doc.ListTotal.Equal(dec("6318")))
	require.True(t, doc.FinalTotal.Equal(dec("3816")))
	require.True(t, doc.DiscountAmount.Equal(dec("2502")))
	require.Equal(t, "Custom Sales Offer", doc.Title)
	require.NotEmpty(t, doc.ProposalID)
	require.Equal(t, "20260828", doc.Date.Format("20060102"))
}

func TestBuildCustomListPriceWhenGroupHasNoDiscount(t *testing.T) {
	svc := testService(t)

	doc, err := svc.BuildCustom(CustomRequest{
		AccountName: "Acme Dental",
		Items:       []LineRequest{{ProductID: "N615", Qty: 3}},
	})
	require.NoError(t, err)
	require.True(t, doc.FinalTotal.Equal(dec("1845")))
	require.True(t, doc.DiscountAmount.IsZero())
}

func TestBuildCustomSkipsUnknownIDs(t *testing.T) {
	svc := testService(t)

	doc, err := svc.BuildCustom(CustomRequest{
		AccountName: "Acme Dental",
		Items: []LineRequest{
			{ProductID: "N615", Qty: 1},
			{ProductID: "GONE-1", Qty: 5},
			{ProductID: "GONE-2", Qty: 5},
		},
	})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	require.Equal(t, []string{"GONE-1", "GONE-2"}, doc.SkippedIDs)
}

func TestBuildCustomIgnoresZeroQuantities(t *testing.T) {
	svc := testService(t)

	doc, err := svc.BuildCustom(CustomRequest{
		AccountName: "Acme Dental",
		Items: []LineRequest{
			{ProductID: "N615", Qty: 0},
			{ProductID: "N4510BA", Qty: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	require.Empty(t, doc.SkippedIDs, "a zero quantity is deselection, not an unknown id")
}

func TestBuildCustomEmptyAfterResolution(t *testing.T) {
	svc := testService(t)

	_, err := svc.BuildCustom(CustomRequest{
		AccountName: "Acme Dental",
		Items:       []LineRequest{{ProductID: "GONE", Qty: 1}},
	})
	require.ErrorIs(t, err, ErrEmptySelection)

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, 400, appErr.HTTPStatus)
}

func TestBuildPromotionClampsDiscount(t *testing.T) {
	svc := testService(t)

	doc, err := svc.BuildPromotion(PromotionRequest{
		DealID:           "nss-25",
		AccountName:      "Acme Dental",
		ImplantType:      "NobelActive TiUltra",
		ImplantUnitPrice: 615,
		DiscountPercent:  55,
	})
	require.NoError(t, err)
	require.True(t, doc.Lines[0].DiscountPercent.Equal(dec("40")), "a 55 percent request must cap at 40")
	require.True(t, doc.Lines[0].UnitPrice.Equal(dec("369")))
	require.Equal(t, "nss-25", doc.DealID)
}

func TestBuildPromotionUnknownDeal(t *testing.T) {
	svc := testService(t)

	_, err := svc.BuildPromotion(PromotionRequest{DealID: "nope", AccountName: "Acme"})
	require.ErrorIs(t, err, ErrUnknownPromotion)
}

func TestBuildPromotionRequiresImplantType(t *testing.T) {
	svc := testService(t)

	_, err := svc.BuildPromotion(PromotionRequest{
		DealID:           "nss-25",
		AccountName:      "Acme",
		ImplantUnitPrice: 615,
	})
	require.ErrorIs(t, err, ErrImplantTypeRequired)
}

func TestBuildPromotionIgnoresDiscountWhenRuleForbidsIt(t *testing.T) {
	svc := testService(t)

	rule, ok := svc.Promos.Find("n1-evaluation")
	require.True(t, ok)
	require.False(t, rule.NeedsDiscount)

	doc, err := svc.BuildPromotion(PromotionRequest{
		DealID:           "n1-evaluation",
		AccountName:      "Acme",
		ImplantType:      "N1 TiUltra",
		ImplantUnitPrice: 635,
		DiscountPercent:  40,
	})
	require.NoError(t, err)
	require.True(t, doc.Lines[0].DiscountPercent.IsZero())
	require.True(t, doc.Lines[0].UnitPrice.Equal(dec("635")))
}

func TestBuildKitSumsBOMs(t *testing.T) {
	svc := testService(t)

	doc, err := svc.BuildKit(KitRequest{
		AccountName:   "Acme Dental",
		BOMs:          []string{"87294", "87296"},
		IncludeAddons: true,
	})
	require.NoError(t, err)
	// 87294 complete (6119) plus 87296 base-only (8813, no addons defined).
	require.Len(t, doc.Lines, 3)
	require.True(t, doc.FinalTotal.Equal(dec("14932")))
}

func TestBuildKitUnknownBOM(t *testing.T) {
	svc := testService(t)

	_, err := svc.BuildKit(KitRequest{AccountName: "Acme", BOMs: []string{"00000"}})
	require.ErrorIs(t, err, ErrUnknownKit)
}
