package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"bookingengine/internal/domain/shared/daterange"
	"bookingengine/internal/domain/units"
)

const (
	ReasonSpecialPrice = "Special price"
	ReasonWeekend      = "Weekend"
	ReasonStandard     = "Standard rate"
)

// NightlyPrice is the resolved charge for one night and why it applies.
type NightlyPrice struct {
	Amount decimal.Decimal
	Reason string
}

// ResolveNightlyPrice picks the price for date. Among the rules covering the
// date the most expensive one wins, whatever its range or age; on equal
// prices the earliest rule in the slice wins. With no covering rule the unit's
// base price applies and Fridays and Saturdays are labelled as weekend.
func ResolveNightlyPrice(unit units.Unit, rules []PricingRule, date time.Time) NightlyPrice {
	day := daterange.Day(date)

	var best *PricingRule
	for i := range rules {
		if !rules[i].Covers(day) {
			continue
		}
		if best == nil || rules[i].PriceAmount.GreaterThan(best.PriceAmount) {
			best = &rules[i]
		}
	}
	if best != nil {
		return NightlyPrice{Amount: best.PriceAmount, Reason: best.Label()}
	}

	reason := ReasonStandard
	if IsWeekend(day) {
		reason = ReasonWeekend
	}
	return NightlyPrice{Amount: unit.BasePrice, Reason: reason}
}

// IsWeekend is true for Friday and Saturday nights.
func IsWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Friday, time.Saturday:
		return true
	default:
		return false
	}
}
