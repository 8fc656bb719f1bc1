package promo_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/proposal-api/internal/pricing"
	"github.com/noah-isme/proposal-api/internal/promo"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyImplantCommitmentWithDiscount(t *testing.T) {
	rule := promo.Rule{
		ID:               "nss-25",
		ImplantQty:       25,
		NeedsDiscount:    true,
		NeedsImplantType: true,
	}
	lines := promo.Apply(rule, promo.ApplyInput{
		ImplantType:      "NobelActive TiUltra",
		ImplantUnitPrice: dec("615"),
		DiscountPercent:  dec("40"),
	})
	require.Len(t, lines, 1)

	implants := lines[0]
	require.Equal(t, 25, implants.Quantity)
	require.True(t, implants.ListPrice.Equal(dec("615")))
	require.True(t, implants.UnitPrice.Equal(dec("369")), "unit price %s", implants.UnitPrice)
	require.True(t, implants.Subtotal().Equal(dec("9225")))
	require.True(t, implants.ListSubtotal().Equal(dec("15375")))
}

func TestApplyImplantsAtListWhenRuleForbidsDiscount(t *testing.T) {
	rule := promo.Rule{ID: "n1-evaluation", ImplantQty: 20, NeedsDiscount: false}
	lines := promo.Apply(rule, promo.ApplyInput{
		ImplantUnitPrice: dec("635"),
		DiscountPercent:  dec("40"), // ignored: the rule dictates list price
	})
	require.Len(t, lines, 1)
	require.True(t, lines[0].UnitPrice.Equal(dec("635")))
	require.True(t, lines[0].DiscountPercent.IsZero())
}

func TestApplyEquipmentIsFixedPrice(t *testing.T) {
	rule := promo.Rule{
		ID:             "xguide-25",
		EquipmentID:    "XG-100",
		EquipmentName:  "X-Guide",
		EquipmentPrice: dec("25000"),
		EquipmentList:  dec("60399"),
	}
	lines := promo.Apply(rule, promo.ApplyInput{})
	require.Len(t, lines, 1)

	eq := lines[0]
	require.True(t, eq.FixedPrice)
	require.Equal(t, 1, eq.Quantity)
	require.True(t, eq.DiscountPercent.IsZero())
	require.True(t, eq.ListSubtotal().Sub(eq.Subtotal()).Equal(dec("35399")))
}

func TestApplyEmissionOrder(t *testing.T) {
	rule := promo.Rule{
		ID:             "dexis-cbct-100",
		ImplantQty:     100,
		NeedsDiscount:  true,
		EquipmentID:    "OP3D-PRO",
		EquipmentName:  "DEXIS OP 3D Pro CBCT",
		EquipmentPrice: dec("59900"),
		EquipmentList:  dec("89995"),
		Extras: []promo.ExtraItem{
			{ID: "CBCT-TRADE", Description: "trade-in credit", Price: dec("-30000"), ListPrice: dec("0")},
		},
	}
	lines := promo.Apply(rule, promo.ApplyInput{ImplantUnitPrice: dec("615"), DiscountPercent: dec("40")})
	require.Len(t, lines, 3)
	require.Equal(t, "Implants", lines[0].Category)
	require.Equal(t, "Equipment", lines[1].Category)
	require.Equal(t, "CBCT-TRADE", lines[2].ProductID)
	require.True(t, lines[2].UnitPrice.Equal(dec("-30000")), "rebate price flows through unchanged")
}

func TestApplyRebateAggregation(t *testing.T) {
	rule := promo.Rule{
		ID:         "rebate-only",
		ImplantQty: 100,
		Extras: []promo.ExtraItem{
			{ID: "TRADE", Description: "credit", Price: dec("-30000"), ListPrice: dec("0")},
		},
	}
	lines := promo.Apply(rule, promo.ApplyInput{ImplantUnitPrice: dec("250")})
	p := pricing.Aggregate(lines)
	require.True(t, p.DiscountAmount.Equal(dec("30000")))
	require.True(t, p.FinalTotal.Equal(dec("-5000")), "engine must not clamp a negative total")
}

func TestClampDiscount(t *testing.T) {
	require.True(t, promo.ClampDiscount(dec("55")).Equal(dec("40")))
	require.True(t, promo.ClampDiscount(dec("40")).Equal(dec("40")))
	require.True(t, promo.ClampDiscount(dec("17.5")).Equal(dec("17.5")))
}

func TestNewRegistryRejectsMalformedRules(t *testing.T) {
	_, err := promo.NewRegistry([]promo.Rule{{Name: "no id"}})
	require.Error(t, err)

	_, err = promo.NewRegistry([]promo.Rule{{ID: "a"}, {ID: "a"}})
	require.Error(t, err)

	_, err = promo.NewRegistry([]promo.Rule{{ID: "a", ImplantQty: -1}})
	require.Error(t, err)
}

func TestDefaultRulesRegister(t *testing.T) {
	reg, err := promo.NewRegistry(promo.DefaultRules())
	require.NoError(t, err)
	require.Greater(t, reg.Len(), 10)

	rule, ok := reg.Find("nss-25")
	require.True(t, ok)
	require.True(t, rule.NeedsDiscount)
	require.True(t, rule.NeedsImplantType)
	require.Equal(t, 25, rule.ImplantQty)
}
