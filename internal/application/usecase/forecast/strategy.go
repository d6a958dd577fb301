package forecast

import (
	"errors"
	"fmt"
	"math"
)

const (
	// StrategyLinear projects the ordinary least squares trend line.
	StrategyLinear = "linear"
	// StrategyAverage projects a buffered moving average.
	StrategyAverage = "average"
)

// ErrEmptySeries is returned when a strategy is asked to project nothing.
var ErrEmptySeries = errors.New("series is empty")

// Projection is the output of a forecasting strategy.
type Projection struct {
	Predicted float64
	Slope     float64 // change per period
	Fit       float64 // goodness of fit in [0,1]
}

// Strategy projects a series of per-period totals forward.
// Implementations must be immutable and safe for concurrent use.
type Strategy interface {
	Name() string
	Project(series []float64, stepsAhead int) (Projection, error)
}

// NewStrategy resolves a strategy by name.
func NewStrategy(name string, window int, buffer float64) (Strategy, error) {
	switch name {
	case "", StrategyLinear:
		return LinearTrendStrategy{}, nil
	case StrategyAverage:
		if window < 1 {
			return nil, fmt.Errorf("moving average window must be at least 1, got %d", window)
		}
		if buffer < 0 {
			return nil, fmt.Errorf("moving average buffer must not be negative, got %v", buffer)
		}
		return MovingAverageStrategy{Window: window, Buffer: buffer}, nil
	}
	return nil, fmt.Errorf("unknown forecast strategy %q", name)
}

// LinearTrendStrategy fits y = intercept + slope*x over x = 0, 1, 2, ...
type LinearTrendStrategy struct{}

func (LinearTrendStrategy) Name() string { return StrategyLinear }

func (LinearTrendStrategy) Project(series []float64, stepsAhead int) (Projection, error) {
	if len(series) == 0 {
		return Projection{}, ErrEmptySeries
	}
	if len(series) == 1 {
		return Projection{Predicted: series[0]}, nil
	}

	slope, intercept, rSquared := computeLinearRegression(series)
	x := float64(len(series) - 1 + stepsAhead)

	return Projection{
		Predicted: intercept + slope*x,
		Slope:     slope,
		Fit:       clamp01(rSquared),
	}, nil
}

// MovingAverageStrategy projects the mean of the last Window periods, padded by Buffer.
type MovingAverageStrategy struct {
	Window int
	Buffer float64 // 0.1 = 10% above the average
}

func (MovingAverageStrategy) Name() string { return StrategyAverage }

func (s MovingAverageStrategy) Project(series []float64, _ int) (Projection, error) {
	if len(series) == 0 {
		return Projection{}, ErrEmptySeries
	}

	window := s.Window
	if window < 1 || window > len(series) {
		window = len(series)
	}
	recent := series[len(series)-window:]
	avg := mean(recent)

	var slope float64
	if len(series) > 1 {
		slope, _, _ = computeLinearRegression(series)
	}

	return Projection{
		Predicted: avg * (1 + s.Buffer),
		Slope:     slope,
		Fit:       stability(recent, avg),
	}, nil
}

// computeLinearRegression computes slope, intercept and R-squared for a series
// of y-values where x = 0, 1, 2, ... (the index).
func computeLinearRegression(points []float64) (slope, intercept, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		return 0, 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range points {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stability is 1 minus the coefficient of variation, clamped to [0,1].
func stability(values []float64, avg float64) float64 {
	if avg == 0 {
		return 1
	}
	var ss float64
	for _, v := range values {
		ss += (v - avg) * (v - avg)
	}
	stddev := math.Sqrt(ss / float64(len(values)))
	return clamp01(1 - stddev/math.Abs(avg))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
