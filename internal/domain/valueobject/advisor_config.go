// Package valueobject contains domain value objects for the recommendation engine.
package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnknownCategoryPolicy decides what happens to categories missing from the rule table.
type UnknownCategoryPolicy string

const (
	// UnknownCategoryGeneric emits a generic suggestion using the default reduction rate.
	UnknownCategoryGeneric UnknownCategoryPolicy = "generic"
	// UnknownCategoryOmit silently skips categories without a rule.
	UnknownCategoryOmit UnknownCategoryPolicy = "omit"
)

// GenericSuggestionFormat is the text used for categories without a rule.
const GenericSuggestionFormat = "Consider reducing spending in %s"

// SuggestionRule maps a category to its advice and reduction heuristic.
type SuggestionRule struct {
	Category       string
	SuggestionText string
	ReductionRate  decimal.Decimal
}

// AdvisorConfig contains the rule table and thresholds for the spending advisor.
type AdvisorConfig struct {
	Rules                 []SuggestionRule
	UnknownCategoryPolicy UnknownCategoryPolicy
	DefaultReductionRate  decimal.Decimal
	MinCategoryTotal      decimal.Decimal // Category total must be strictly greater
	MinShareOfTotal       decimal.Decimal // 0.10 = category must be at least 10% of spending
	MaxSuggestions        int             // 0 means unlimited
}

// DefaultAdvisorConfig returns the built-in rule table and thresholds.
func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{
		Rules:                 DefaultSuggestionRules(),
		UnknownCategoryPolicy: UnknownCategoryGeneric,
		DefaultReductionRate:  decimal.NewFromFloat(0.10),
		MinCategoryTotal:      decimal.Zero,
		MinShareOfTotal:       decimal.Zero,
		MaxSuggestions:        5,
	}
}

// DefaultSuggestionRules returns the rule table for the standard expense taxonomy.
func DefaultSuggestionRules() []SuggestionRule {
	return []SuggestionRule{
		{Category: "Food & Dining", SuggestionText: "Plan meals and cook at home more often to cut dining costs", ReductionRate: decimal.NewFromFloat(0.15)},
		{Category: "Shopping", SuggestionText: "Set a monthly shopping limit and avoid impulse purchases", ReductionRate: decimal.NewFromFloat(0.20)},
		{Category: "Entertainment", SuggestionText: "Review subscriptions and look for free or low-cost entertainment", ReductionRate: decimal.NewFromFloat(0.20)},
		{Category: "Transportation", SuggestionText: "Combine trips and use public transport or carpooling where possible", ReductionRate: decimal.NewFromFloat(0.10)},
		{Category: "Bills & Utilities", SuggestionText: "Compare providers and reduce energy usage to lower your bills", ReductionRate: decimal.NewFromFloat(0.05)},
		{Category: "Travel", SuggestionText: "Book earlier and compare fares to reduce travel costs", ReductionRate: decimal.NewFromFloat(0.15)},
		{Category: "Personal Care", SuggestionText: "Look for discounts and space out personal care purchases", ReductionRate: decimal.NewFromFloat(0.10)},
		{Category: "Health & Fitness", SuggestionText: "Cancel unused memberships and look for cheaper fitness options", ReductionRate: decimal.NewFromFloat(0.05)},
		{Category: "Education", SuggestionText: "Look for used materials, scholarships or free courses", ReductionRate: decimal.NewFromFloat(0.05)},
	}
}

// RuleFor returns the rule for a category, matching names case-insensitively.
func (c AdvisorConfig) RuleFor(category string) (SuggestionRule, bool) {
	key := NormalizeCategory(category)
	for _, rule := range c.Rules {
		if NormalizeCategory(rule.Category) == key {
			return rule, true
		}
	}
	return SuggestionRule{}, false
}

// NormalizeCategory returns the key categories are compared by: trimmed and lower-cased.
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
