package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bookingengine/internal/domain/shared/daterange"
	"bookingengine/internal/domain/units"
)

var (
	ErrRuleIDRequired   = errors.New("pricing: rule id is required")
	ErrRuleUnitRequired = errors.New("pricing: rule unit id is required")
	ErrRuleRange        = errors.New("pricing: rule end date must not precede start date")
	ErrRulePrice        = errors.New("pricing: rule price must be non-negative")
)

type RuleID string

// PricingRule overrides a unit's nightly price for every date in
// [StartDate, EndDate], both ends included.
type PricingRule struct {
	ID          RuleID
	UnitID      units.UnitID
	StartDate   time.Time
	EndDate     time.Time
	PriceAmount decimal.Decimal
	PriceType   string
	Description string
}

type RuleRepository interface {
	ByUnit(ctx context.Context, unitID units.UnitID) ([]PricingRule, error)
	Save(ctx context.Context, rule PricingRule) error
}

type RuleParams struct {
	ID          RuleID
	UnitID      units.UnitID
	StartDate   time.Time
	EndDate     time.Time
	PriceAmount decimal.Decimal
	PriceType   string
	Description string
}

func NewRule(params RuleParams) (PricingRule, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return PricingRule{}, ErrRuleIDRequired
	}
	if strings.TrimSpace(string(params.UnitID)) == "" {
		return PricingRule{}, ErrRuleUnitRequired
	}
	start, end := daterange.Day(params.StartDate), daterange.Day(params.EndDate)
	if end.Before(start) {
		return PricingRule{}, ErrRuleRange
	}
	if params.PriceAmount.Sign() < 0 {
		return PricingRule{}, ErrRulePrice
	}
	return PricingRule{
		ID:          params.ID,
		UnitID:      params.UnitID,
		StartDate:   start,
		EndDate:     end,
		PriceAmount: params.PriceAmount,
		PriceType:   strings.TrimSpace(params.PriceType),
		Description: strings.TrimSpace(params.Description),
	}, nil
}

// Covers reports whether date falls inside the rule's inclusive range.
func (r PricingRule) Covers(date time.Time) bool {
	d := daterange.Day(date)
	return !d.Before(daterange.Day(r.StartDate)) && !d.After(daterange.Day(r.EndDate))
}

// Label is the reason shown for nights priced by this rule.
func (r PricingRule) Label() string {
	if r.Description != "" {
		return r.Description
	}
	if r.PriceType != "" {
		return r.PriceType
	}
	return ReasonSpecialPrice
}
