package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/domain/entity"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

// ForecastSpendingInput represents the input for projecting the next period's spending.
type ForecastSpendingInput struct {
	Transactions []entity.TransactionRecord
	AsOf         time.Time
	Horizon      valueobject.PeriodSpec
}

// ForecastSpendingUseCase projects next-period spending per category and overall.
type ForecastSpendingUseCase struct {
	config   valueobject.ForecastConfig
	strategy Strategy
}

// NewForecastSpendingUseCase creates a new ForecastSpendingUseCase instance.
func NewForecastSpendingUseCase(config valueobject.ForecastConfig, strategy Strategy) *ForecastSpendingUseCase {
	if strategy == nil {
		strategy = LinearTrendStrategy{}
	}
	return &ForecastSpendingUseCase{
		config:   config,
		strategy: strategy,
	}
}

// history is the bucketed expense data used for projection.
type history struct {
	periods    []time.Time
	overall    []float64
	categories []categorySeries
	partial    bool
	stepsAhead int
}

type categorySeries struct {
	name   string
	series []float64
}

// Execute generates the forecast.
func (uc *ForecastSpendingUseCase) Execute(_ context.Context, input ForecastSpendingInput) (*entity.ForecastResult, error) {
	// 1. Validate input
	if err := entity.ValidateRecords(input.Transactions); err != nil {
		return nil, err
	}
	if input.AsOf.IsZero() {
		return nil, domainerror.NewInvalidInputError(domainerror.ErrCodeMissingAsOf, "as_of is required")
	}
	horizon := input.Horizon
	if horizon.Granularity == "" {
		horizon.Granularity = valueobject.GranularityMonthly
	}
	if horizon.PeriodsAhead == 0 {
		horizon.PeriodsAhead = 1
	}
	if !horizon.Granularity.IsValid() || horizon.PeriodsAhead < 1 {
		return nil, domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidHorizon,
			fmt.Sprintf("invalid horizon %q with %d periods ahead", horizon.Granularity, horizon.PeriodsAhead))
	}

	asOf := calendarDay(input.AsOf)
	currentStart := GetPeriodStart(asOf, horizon.Granularity)
	target := AddPeriods(currentStart, horizon.Granularity, horizon.PeriodsAhead)
	label := GeneratePeriodLabel(target, horizon.Granularity)

	// 2. Bucket expenses into periods
	hist := uc.bucket(entity.Expenses(input.Transactions), asOf, horizon.Granularity, target)
	if len(hist.periods) == 0 {
		return uc.fallback(label)
	}

	// 3. Project each category
	categories := make([]entity.CategoryForecast, 0, len(hist.categories))
	total := decimal.Zero
	for _, cs := range hist.categories {
		proj, err := uc.project(cs.series, hist.stepsAhead)
		if err != nil {
			return nil, err
		}

		predicted := decimal.NewFromFloat(math.Max(0, proj.Predicted)).Round(2)
		categories = append(categories, entity.CategoryForecast{
			Name:            cs.name,
			PredictedAmount: predicted,
			Slope:           decimal.NewFromFloat(proj.Slope).Round(2),
			Trend:           uc.classifyTrend(cs.series, proj.Slope),
		})
		total = total.Add(predicted)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].PredictedAmount.GreaterThan(categories[j].PredictedAmount)
	})

	// 4. Overall series drives confidence and trend only
	overall, err := uc.project(hist.overall, hist.stepsAhead)
	if err != nil {
		return nil, err
	}

	return &entity.ForecastResult{
		NextPeriodTotal:      total,
		Confidence:           uc.confidence(len(hist.overall), overall.Fit),
		PredictedPeriodLabel: label,
		Categories:           categories,
		OverallTrend:         uc.classifyTrend(hist.overall, overall.Slope),
		HistoryPeriods:       len(hist.overall),
		Strategy:             uc.strategy.Name(),
		Message:              buildMessage(len(hist.overall), horizon.Granularity, hist.partial),
	}, nil
}

// bucket builds zero-filled per-period totals for the projection window.
func (uc *ForecastSpendingUseCase) bucket(expenses []entity.TransactionRecord, asOf time.Time, granularity valueobject.Granularity, target time.Time) history {
	currentStart, currentEnd := GetPeriodBounds(asOf, granularity)
	lastComplete := currentStart
	if currentEnd.After(asOf) {
		lastComplete = AddPeriods(currentStart, granularity, -1)
	}
	lookback := uc.config.LookbackPeriods
	if lookback < 1 {
		lookback = 1
	}
	windowStart := AddPeriods(lastComplete, granularity, -(lookback - 1))

	var inWindow, inCurrent []entity.TransactionRecord
	first := time.Time{}
	for _, exp := range expenses {
		day := calendarDay(exp.Date)
		if day.After(asOf) {
			continue
		}
		start := GetPeriodStart(day, granularity)
		switch {
		case !start.Before(windowStart) && !start.After(lastComplete):
			inWindow = append(inWindow, exp)
			if first.IsZero() || start.Before(first) {
				first = start
			}
		case start.Equal(currentStart):
			inCurrent = append(inCurrent, exp)
		}
	}

	if len(inWindow) > 0 {
		return buildHistory(inWindow, GeneratePeriodSeries(first, lastComplete, granularity), granularity,
			PeriodsBetween(lastComplete, target, granularity), false)
	}
	if len(inCurrent) > 0 {
		return buildHistory(inCurrent, GeneratePeriodSeries(currentStart, currentStart, granularity), granularity,
			PeriodsBetween(currentStart, target, granularity), true)
	}
	return history{}
}

func buildHistory(expenses []entity.TransactionRecord, periods []PeriodInfo, granularity valueobject.Granularity, stepsAhead int, partial bool) history {
	index := make(map[string]int, len(periods))
	starts := make([]time.Time, len(periods))
	for i, p := range periods {
		index[p.PeriodStart.Format("2006-01-02")] = i
		starts[i] = p.PeriodStart
	}

	overall := make([]decimal.Decimal, len(periods))
	for i := range overall {
		overall[i] = decimal.Zero
	}
	categoryIndex := make(map[string]int)
	var categoryTotals [][]decimal.Decimal
	var names []string

	for _, exp := range expenses {
		pos, ok := index[GetPeriodKeyForDate(calendarDay(exp.Date), granularity)]
		if !ok {
			continue
		}
		name := exp.CategoryName()
		key := valueobject.NormalizeCategory(name)
		ci, exists := categoryIndex[key]
		if !exists {
			ci = len(names)
			categoryIndex[key] = ci
			names = append(names, name)
			totals := make([]decimal.Decimal, len(periods))
			for i := range totals {
				totals[i] = decimal.Zero
			}
			categoryTotals = append(categoryTotals, totals)
		}
		categoryTotals[ci][pos] = categoryTotals[ci][pos].Add(exp.Amount)
		overall[pos] = overall[pos].Add(exp.Amount)
	}

	categories := make([]categorySeries, len(names))
	for i, name := range names {
		categories[i] = categorySeries{name: name, series: toFloats(categoryTotals[i])}
	}

	return history{
		periods:    starts,
		overall:    toFloats(overall),
		categories: categories,
		partial:    partial,
		stepsAhead: stepsAhead,
	}
}

func toFloats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

// project runs the strategy and rejects failures and non-finite output.
func (uc *ForecastSpendingUseCase) project(series []float64, stepsAhead int) (Projection, error) {
	proj, err := uc.strategy.Project(series, stepsAhead)
	if err != nil {
		return Projection{}, domainerror.NewInternalFailureError(domainerror.ErrCodeStrategyFailure,
			fmt.Sprintf("%s strategy failed", uc.strategy.Name()), err)
	}
	if !isFinite(proj.Predicted) || !isFinite(proj.Slope) || !isFinite(proj.Fit) {
		return Projection{}, domainerror.NewInternalFailureError(domainerror.ErrCodeDegenerateSeries,
			fmt.Sprintf("%s strategy produced a non-finite projection", uc.strategy.Name()), nil)
	}
	return proj, nil
}

// monotonic returns 1 for a strictly increasing series, -1 for a strictly decreasing one and 0 otherwise.
func monotonic(series []float64) int {
	up, down := true, true
	for i := 1; i < len(series); i++ {
		if series[i] <= series[i-1] {
			up = false
		}
		if series[i] >= series[i-1] {
			down = false
		}
	}
	switch {
	case up:
		return 1
	case down:
		return -1
	}
	return 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// classifyTrend follows the direction of a strictly monotonic series of three or more
// periods. Anything else compares the slope against a deadband scaled to the series.
func (uc *ForecastSpendingUseCase) classifyTrend(series []float64, slope float64) entity.Trend {
	if len(series) < 2 {
		return entity.TrendStable
	}
	if len(series) >= 3 {
		switch monotonic(series) {
		case 1:
			return entity.TrendIncreasing
		case -1:
			return entity.TrendDecreasing
		}
	}
	epsilon := math.Max(uc.config.AbsoluteDeadband, uc.config.RelativeDeadband*math.Abs(mean(series)))
	switch {
	case slope > epsilon:
		return entity.TrendIncreasing
	case slope < -epsilon:
		return entity.TrendDecreasing
	default:
		return entity.TrendStable
	}
}

func (uc *ForecastSpendingUseCase) confidence(periods int, fit float64) float64 {
	switch periods {
	case 0:
		return 0
	case 1:
		return clamp01(uc.config.ConfidenceFloor)
	}

	full := uc.config.FullConfidencePeriods
	if full < 1 {
		full = 1
	}
	coverage := math.Min(1, float64(periods)/float64(full))
	c := clamp01(fit * coverage)
	if periods == 2 {
		c = math.Min(c, clamp01(uc.config.ConfidenceFloor*2))
	}
	return c
}

// fallback handles a history without any usable expense.
func (uc *ForecastSpendingUseCase) fallback(label string) (*entity.ForecastResult, error) {
	if !uc.config.Fallback.Enabled {
		return nil, domainerror.NewRecommendationError(domainerror.ErrCodeNoHistory,
			"no expense history available to forecast from", domainerror.ErrInsufficientData)
	}

	return &entity.ForecastResult{
		NextPeriodTotal:      uc.config.Fallback.DefaultAmount,
		Confidence:           0,
		PredictedPeriodLabel: label,
		Categories:           []entity.CategoryForecast{},
		OverallTrend:         entity.TrendStable,
		HistoryPeriods:       0,
		Strategy:             uc.strategy.Name(),
		Message:              "Not enough spending history yet; add transactions to get a forecast",
	}, nil
}

func buildMessage(periods int, granularity valueobject.Granularity, partial bool) string {
	if partial {
		return fmt.Sprintf("Forecast based on the current %s so far", periodNoun(granularity))
	}
	noun := periodNoun(granularity)
	if periods != 1 {
		noun += "s"
	}
	return fmt.Sprintf("Forecast based on %d %s of spending history", periods, noun)
}

func periodNoun(granularity valueobject.Granularity) string {
	switch granularity {
	case valueobject.GranularityWeekly:
		return "week"
	case valueobject.GranularityQuarterly:
		return "quarter"
	default:
		return "month"
	}
}
