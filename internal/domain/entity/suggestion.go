// Package entity defines the core business entities for the domain layer.
package entity

import "github.com/shopspring/decimal"

// Suggestion is a category-level savings recommendation.
type Suggestion struct {
	Category          string
	Text              string
	ReductionRate     decimal.Decimal
	CurrentSpending   decimal.Decimal
	PotentialSavings  decimal.Decimal
	SuggestedSpending decimal.Decimal
}

// SuggestionSet is an ordered list of suggestions with derived totals.
type SuggestionSet struct {
	Suggestions            []Suggestion
	TotalPotentialSavings  decimal.Decimal
	AnnualPotentialSavings decimal.Decimal
	Message                string
}

// NewSuggestionSet builds a set and derives its total from the given suggestions.
func NewSuggestionSet(suggestions []Suggestion, message string) *SuggestionSet {
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	total := decimal.Zero
	for _, s := range suggestions {
		total = total.Add(s.PotentialSavings)
	}
	return &SuggestionSet{
		Suggestions:            suggestions,
		TotalPotentialSavings:  total,
		AnnualPotentialSavings: decimal.Zero,
		Message:                message,
	}
}
