package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

// RulesFile is the on-disk rule table for the spending advisor.
type RulesFile struct {
	UnknownCategoryPolicy string     `toml:"unknown_category_policy,omitempty" validate:"omitempty,oneof=generic omit"`
	DefaultReductionRate  *float64   `toml:"default_reduction_rate,omitempty" validate:"omitempty,min=0,max=1"`
	Rules                 []RuleFile `toml:"rules" validate:"dive"`
}

// RuleFile is a single category rule.
type RuleFile struct {
	Category      string  `toml:"category" validate:"required"`
	Suggestion    string  `toml:"suggestion" validate:"required"`
	ReductionRate float64 `toml:"reduction_rate" validate:"min=0,max=1"`
}

// LoadRulesFile reads and validates a TOML rule table.
func LoadRulesFile(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var rf RulesFile
	if err := toml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	if err := validator.New().Struct(&rf); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(rf.Rules))
	for _, r := range rf.Rules {
		key := valueobject.NormalizeCategory(r.Category)
		if seen[key] {
			return nil, fmt.Errorf("invalid rules file %s: duplicate category %q", path, r.Category)
		}
		seen[key] = true
	}

	return &rf, nil
}

// AllocationConfig returns the budget allocator rates.
func (c *Config) AllocationConfig() valueobject.AllocationConfig {
	return valueobject.AllocationConfig{
		SavingsRate:         c.Recommendation.SavingsRate,
		VariableCeilingRate: c.Recommendation.VariableCeilingRate,
	}
}

// AdvisorConfig builds the advisor configuration, reading the rule table when one is configured.
// Values in the rules file take precedence over environment defaults.
func (c *Config) AdvisorConfig() (valueobject.AdvisorConfig, error) {
	rc := c.Recommendation
	advisorCfg := valueobject.AdvisorConfig{
		Rules:                 valueobject.DefaultSuggestionRules(),
		UnknownCategoryPolicy: valueobject.UnknownCategoryPolicy(rc.UnknownCategoryPolicy),
		DefaultReductionRate:  rc.DefaultReductionRate,
		MinCategoryTotal:      rc.MinCategoryTotal,
		MinShareOfTotal:       rc.MinShareOfTotal,
		MaxSuggestions:        rc.MaxSuggestions,
	}

	if rc.RulesFile == "" {
		return advisorCfg, nil
	}

	rf, err := LoadRulesFile(rc.RulesFile)
	if err != nil {
		return valueobject.AdvisorConfig{}, err
	}

	rules := make([]valueobject.SuggestionRule, len(rf.Rules))
	for i, r := range rf.Rules {
		rules[i] = valueobject.SuggestionRule{
			Category:       r.Category,
			SuggestionText: r.Suggestion,
			ReductionRate:  decimal.NewFromFloat(r.ReductionRate),
		}
	}
	advisorCfg.Rules = rules

	if rf.UnknownCategoryPolicy != "" {
		advisorCfg.UnknownCategoryPolicy = valueobject.UnknownCategoryPolicy(rf.UnknownCategoryPolicy)
	}
	if rf.DefaultReductionRate != nil {
		advisorCfg.DefaultReductionRate = decimal.NewFromFloat(*rf.DefaultReductionRate)
	}

	return advisorCfg, nil
}

// ForecastConfig returns the forecaster tuning parameters.
func (c *Config) ForecastConfig() valueobject.ForecastConfig {
	fc := c.Forecast
	return valueobject.ForecastConfig{
		LookbackPeriods:       fc.LookbackPeriods,
		AbsoluteDeadband:      fc.AbsoluteDeadband,
		RelativeDeadband:      fc.RelativeDeadband,
		ConfidenceFloor:       fc.ConfidenceFloor,
		FullConfidencePeriods: fc.FullConfidencePeriods,
		Fallback: valueobject.ForecastFallback{
			Enabled:       fc.FallbackEnabled,
			DefaultAmount: fc.FallbackAmount,
		},
	}
}
