// Package advisor contains the spending advisor use case.
package advisor

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/domain/entity"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

const (
	// healthyMessage is returned when no category warrants a suggestion.
	healthyMessage = "Your spending patterns look healthy!"

	monthsPerYear = 12
)

// AdviseSpendingInput represents the input for generating savings suggestions.
type AdviseSpendingInput struct {
	Transactions []entity.TransactionRecord
}

// AdviseSpendingUseCase derives ranked savings suggestions from a transaction history.
type AdviseSpendingUseCase struct {
	config valueobject.AdvisorConfig
}

// NewAdviseSpendingUseCase creates a new AdviseSpendingUseCase instance.
func NewAdviseSpendingUseCase(config valueobject.AdvisorConfig) *AdviseSpendingUseCase {
	return &AdviseSpendingUseCase{
		config: config,
	}
}

// categoryTotal is the aggregated spending of one category.
type categoryTotal struct {
	Name       string
	Total      decimal.Decimal
	FirstIndex int
}

// Execute generates the suggestion set.
func (uc *AdviseSpendingUseCase) Execute(_ context.Context, input AdviseSpendingInput) (*entity.SuggestionSet, error) {
	// 1. Validate input
	if err := entity.ValidateRecords(input.Transactions); err != nil {
		return nil, err
	}

	// 2. Group expenses by category
	expenses := entity.Expenses(input.Transactions)
	totals, overall := groupByCategory(expenses)

	// 3. Build suggestions for categories above the thresholds
	suggestions := make([]entity.Suggestion, 0, len(totals))
	firstIndex := make(map[string]int, len(totals))
	for _, ct := range totals {
		if !uc.exceedsThreshold(ct.Total, overall) {
			continue
		}

		suggestion, ok := uc.buildSuggestion(ct)
		if !ok {
			continue
		}
		suggestions = append(suggestions, suggestion)
		firstIndex[suggestion.Category] = ct.FirstIndex
	}

	// 4. Rank by potential savings, ties keep first appearance order
	sort.SliceStable(suggestions, func(i, j int) bool {
		si, sj := suggestions[i].PotentialSavings, suggestions[j].PotentialSavings
		if !si.Equal(sj) {
			return si.GreaterThan(sj)
		}
		return firstIndex[suggestions[i].Category] < firstIndex[suggestions[j].Category]
	})

	if uc.config.MaxSuggestions > 0 && len(suggestions) > uc.config.MaxSuggestions {
		suggestions = suggestions[:uc.config.MaxSuggestions]
	}

	// 5. Derive totals
	set := entity.NewSuggestionSet(suggestions, buildMessage(len(suggestions)))
	set.AnnualPotentialSavings = annualize(set.TotalPotentialSavings, observedMonths(expenses))

	return set, nil
}

// groupByCategory sums amounts per category, ordered by first appearance.
// Names differing only in case or surrounding space share a bucket labeled by the first one seen.
func groupByCategory(expenses []entity.TransactionRecord) ([]categoryTotal, decimal.Decimal) {
	index := make(map[string]int)
	var totals []categoryTotal
	overall := decimal.Zero

	for i, exp := range expenses {
		name := exp.CategoryName()
		key := valueobject.NormalizeCategory(name)
		pos, exists := index[key]
		if !exists {
			pos = len(totals)
			index[key] = pos
			totals = append(totals, categoryTotal{Name: name, Total: decimal.Zero, FirstIndex: i})
		}
		totals[pos].Total = totals[pos].Total.Add(exp.Amount)
		overall = overall.Add(exp.Amount)
	}

	return totals, overall
}

// exceedsThreshold reports whether a category is large enough to advise on.
func (uc *AdviseSpendingUseCase) exceedsThreshold(total, overall decimal.Decimal) bool {
	if !total.GreaterThan(uc.config.MinCategoryTotal) {
		return false
	}
	if uc.config.MinShareOfTotal.IsPositive() {
		if overall.IsZero() {
			return false
		}
		if total.Div(overall).LessThan(uc.config.MinShareOfTotal) {
			return false
		}
	}
	return true
}

// buildSuggestion applies the rule table, or the unknown-category policy.
func (uc *AdviseSpendingUseCase) buildSuggestion(ct categoryTotal) (entity.Suggestion, bool) {
	rule, found := uc.config.RuleFor(ct.Name)
	if !found {
		if uc.config.UnknownCategoryPolicy == valueobject.UnknownCategoryOmit {
			return entity.Suggestion{}, false
		}
		rule = valueobject.SuggestionRule{
			Category:       ct.Name,
			SuggestionText: fmt.Sprintf(valueobject.GenericSuggestionFormat, ct.Name),
			ReductionRate:  uc.config.DefaultReductionRate,
		}
	}

	savings := ct.Total.Mul(rule.ReductionRate).Round(2)
	if !savings.IsPositive() {
		return entity.Suggestion{}, false
	}

	return entity.Suggestion{
		Category:          ct.Name,
		Text:              rule.SuggestionText,
		ReductionRate:     rule.ReductionRate,
		CurrentSpending:   ct.Total,
		PotentialSavings:  savings,
		SuggestedSpending: ct.Total.Sub(savings),
	}, true
}

// observedMonths counts the distinct calendar months covered by the expenses.
func observedMonths(expenses []entity.TransactionRecord) int {
	months := make(map[string]struct{})
	for _, exp := range expenses {
		months[exp.Date.Format("2006-01")] = struct{}{}
	}
	if len(months) == 0 {
		return 1
	}
	return len(months)
}

// annualize converts savings over the observed window into a yearly figure.
func annualize(total decimal.Decimal, months int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(months))).Mul(decimal.NewFromInt(monthsPerYear)).Round(2)
}

func buildMessage(count int) string {
	switch count {
	case 0:
		return healthyMessage
	case 1:
		return "Found 1 category where you could save"
	default:
		return fmt.Sprintf("Found %d categories where you could save", count)
	}
}
