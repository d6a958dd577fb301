package adapter

import "time"

// RecommendationMetrics records pipeline observations.
type RecommendationMetrics interface {
	// ObserveStage records the duration and outcome of one pipeline stage.
	ObserveStage(stage string, duration time.Duration, err error)

	// ObserveCache records a result cache lookup.
	ObserveCache(hit bool)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ObserveStage(string, time.Duration, error) {}

func (NopMetrics) ObserveCache(bool) {}
