package memory

import (
	"context"
	"sync"

	domainpricing "bookingengine/internal/domain/pricing"
	domainunits "bookingengine/internal/domain/units"
)

// RuleRepository keeps pricing rules per unit in insertion order. The order
// matters: it breaks ties between equally priced rules.
type RuleRepository struct {
	mu     sync.RWMutex
	byUnit map[domainunits.UnitID][]domainpricing.PricingRule
}

func NewRuleRepository() *RuleRepository {
	return &RuleRepository{byUnit: make(map[domainunits.UnitID][]domainpricing.PricingRule)}
}

func (r *RuleRepository) ByUnit(ctx context.Context, unitID domainunits.UnitID) ([]domainpricing.PricingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := r.byUnit[unitID]
	out := make([]domainpricing.PricingRule, len(rules))
	copy(out, rules)
	return out, nil
}

// Save appends a new rule or replaces one with the same id in place.
func (r *RuleRepository) Save(ctx context.Context, rule domainpricing.PricingRule) error {
	if rule.ID == "" {
		return domainpricing.ErrRuleIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rules := r.byUnit[rule.UnitID]
	for i := range rules {
		if rules[i].ID == rule.ID {
			rules[i] = rule
			return nil
		}
	}
	r.byUnit[rule.UnitID] = append(rules, rule)
	return nil
}
