package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNightlyPrice(t *testing.T) {
	unit := plainUnit()
	monday := day(2024, 1, 8)
	friday := day(2024, 1, 12)
	saturday := day(2024, 1, 13)
	sunday := day(2024, 1, 14)

	t.Run("base price on weekdays", func(t *testing.T) {
		got := ResolveNightlyPrice(unit, nil, monday)
		assertAmount(t, "100", got.Amount)
		assert.Equal(t, ReasonStandard, got.Reason)
	})

	t.Run("friday and saturday are weekend", func(t *testing.T) {
		assert.Equal(t, ReasonWeekend, ResolveNightlyPrice(unit, nil, friday).Reason)
		assert.Equal(t, ReasonWeekend, ResolveNightlyPrice(unit, nil, saturday).Reason)
		assert.Equal(t, ReasonStandard, ResolveNightlyPrice(unit, nil, sunday).Reason)
		assertAmount(t, "100", ResolveNightlyPrice(unit, nil, saturday).Amount)
	})

	t.Run("highest price wins regardless of range width", func(t *testing.T) {
		narrow := PricingRule{ID: "narrow", StartDate: monday, EndDate: monday, PriceAmount: dec("100"), Description: "Promo"}
		broad := PricingRule{ID: "broad", StartDate: monday.AddDate(0, -1, 0), EndDate: monday.AddDate(0, 1, 0), PriceAmount: dec("120"), Description: "Season"}

		for _, rules := range [][]PricingRule{{narrow, broad}, {broad, narrow}} {
			got := ResolveNightlyPrice(unit, rules, monday)
			assertAmount(t, "120", got.Amount)
			assert.Equal(t, "Season", got.Reason)
		}
	})

	t.Run("equal prices keep the first rule", func(t *testing.T) {
		a := PricingRule{ID: "a", StartDate: monday, EndDate: monday, PriceAmount: dec("130"), Description: "First"}
		b := PricingRule{ID: "b", StartDate: monday, EndDate: monday, PriceAmount: dec("130.00"), Description: "Second"}
		assert.Equal(t, "First", ResolveNightlyPrice(unit, []PricingRule{a, b}, monday).Reason)
	})

	t.Run("rule may be cheaper than base price", func(t *testing.T) {
		r := PricingRule{ID: "low", StartDate: monday, EndDate: monday, PriceAmount: dec("80")}
		got := ResolveNightlyPrice(unit, []PricingRule{r}, monday)
		assertAmount(t, "80", got.Amount)
	})

	t.Run("rule reason beats weekend label", func(t *testing.T) {
		r := PricingRule{ID: "w", StartDate: friday, EndDate: saturday, PriceAmount: dec("140"), PriceType: "Seasonal"}
		got := ResolveNightlyPrice(unit, []PricingRule{r}, saturday)
		assertAmount(t, "140", got.Amount)
		assert.Equal(t, "Seasonal", got.Reason)
	})

	t.Run("reason fallbacks", func(t *testing.T) {
		withDescription := PricingRule{StartDate: monday, EndDate: monday, PriceAmount: dec("1"), PriceType: "Type", Description: "Desc"}
		withType := PricingRule{StartDate: monday, EndDate: monday, PriceAmount: dec("1"), PriceType: "Type"}
		bare := PricingRule{StartDate: monday, EndDate: monday, PriceAmount: dec("1")}

		assert.Equal(t, "Desc", ResolveNightlyPrice(unit, []PricingRule{withDescription}, monday).Reason)
		assert.Equal(t, "Type", ResolveNightlyPrice(unit, []PricingRule{withType}, monday).Reason)
		assert.Equal(t, ReasonSpecialPrice, ResolveNightlyPrice(unit, []PricingRule{bare}, monday).Reason)
	})

	t.Run("rule ends are inclusive", func(t *testing.T) {
		r := PricingRule{StartDate: day(2024, 1, 10), EndDate: day(2024, 1, 12), PriceAmount: dec("150")}
		assertAmount(t, "100", ResolveNightlyPrice(unit, []PricingRule{r}, day(2024, 1, 9)).Amount)
		assertAmount(t, "150", ResolveNightlyPrice(unit, []PricingRule{r}, day(2024, 1, 10)).Amount)
		assertAmount(t, "150", ResolveNightlyPrice(unit, []PricingRule{r}, day(2024, 1, 12)).Amount)
		assertAmount(t, "100", ResolveNightlyPrice(unit, []PricingRule{r}, day(2024, 1, 13)).Amount)
	})

	t.Run("time of day on the rule is ignored", func(t *testing.T) {
		r := PricingRule{StartDate: day(2024, 1, 10).Add(18 * time.Hour), EndDate: day(2024, 1, 12).Add(6 * time.Hour), PriceAmount: dec("150")}
		assertAmount(t, "150", ResolveNightlyPrice(unit, []PricingRule{r}, day(2024, 1, 10)).Amount)
		assertAmount(t, "150", ResolveNightlyPrice(unit, []PricingRule{r}, day(2024, 1, 12).Add(23*time.Hour)).Amount)
	})
}

func TestNewRule(t *testing.T) {
	_, err := NewRule(RuleParams{ID: "r", UnitID: "u", StartDate: day(2024, 1, 2), EndDate: day(2024, 1, 1), PriceAmount: dec("1")})
	assert.ErrorIs(t, err, ErrRuleRange)

	_, err = NewRule(RuleParams{ID: "r", UnitID: "u", StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 1), PriceAmount: dec("-1")})
	assert.ErrorIs(t, err, ErrRulePrice)

	_, err = NewRule(RuleParams{UnitID: "u"})
	assert.ErrorIs(t, err, ErrRuleIDRequired)

	r, err := NewRule(RuleParams{ID: "r", UnitID: "u", StartDate: day(2024, 1, 1).Add(5 * time.Hour), EndDate: day(2024, 1, 1), PriceAmount: dec("1"), PriceType: "  Holiday "})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 1), r.StartDate)
	assert.Equal(t, "Holiday", r.PriceType)
}
