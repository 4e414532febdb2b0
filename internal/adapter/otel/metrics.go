package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "timeclock"

// Metrics holds all timeclock metric instruments.
type Metrics struct {
	TasksStarted   metric.Int64Counter
	TasksStopped   metric.Int64Counter
	ManualEntries  metric.Int64Counter
	TaskMinutes    metric.Float64Histogram
	StatsCacheHits metric.Int64Counter
	StatsCacheMiss metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksStarted, err = meter.Int64Counter("timeclock.tasks.started",
		metric.WithDescription("Number of timers started"))
	if err != nil {
		return nil, err
	}

	m.TasksStopped, err = meter.Int64Counter("timeclock.tasks.stopped",
		metric.WithDescription("Number of timers stopped"))
	if err != nil {
		return nil, err
	}

	m.ManualEntries, err = meter.Int64Counter("timeclock.tasks.manual",
		metric.WithDescription("Number of manually recorded tasks"))
	if err != nil {
		return nil, err
	}

	m.TaskMinutes, err = meter.Float64Histogram("timeclock.task.duration_minutes",
		metric.WithDescription("Completed task duration in minutes"))
	if err != nil {
		return nil, err
	}

	m.StatsCacheHits, err = meter.Int64Counter("timeclock.stats.cache_hits",
		metric.WithDescription("Statistics responses served from cache"))
	if err != nil {
		return nil, err
	}

	m.StatsCacheMiss, err = meter.Int64Counter("timeclock.stats.cache_misses",
		metric.WithDescription("Statistics responses computed from the store"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
