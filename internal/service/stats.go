package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tcotel "github.com/plattdot/timeclock/internal/adapter/otel"
	"github.com/plattdot/timeclock/internal/domain"
	"github.com/plattdot/timeclock/internal/domain/stats"
	"github.com/plattdot/timeclock/internal/port/cache"
	"github.com/plattdot/timeclock/internal/port/database"
)

// StatsService computes daily/weekly aggregates and top-task rankings over
// completed tasks. Rendered results are cached for a short TTL; the
// endpoints are read-only, so staleness is bounded by the TTL.
type StatsService struct {
	store   database.Store
	cache   cache.Cache
	ttl     time.Duration
	metrics *tcotel.Metrics

	now func() time.Time
}

// NewStatsService creates a StatsService. cache and metrics may be nil;
// a nil cache disables response caching.
func NewStatsService(store database.Store, c cache.Cache, ttl time.Duration, metrics *tcotel.Metrics) *StatsService {
	return &StatsService{store: store, cache: c, ttl: ttl, metrics: metrics, now: time.Now}
}

// Daily returns the aggregate for the calendar day containing date.
func (s *StatsService) Daily(ctx context.Context, date time.Time) (*stats.DailyStats, error) {
	key := "stats:daily:" + date.Format(stats.DateFormat)
	var cached stats.DailyStats
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	from, to := stats.DayWindow(date)
	ctx, span := tcotel.StartAggregationSpan(ctx, "daily", from, to)
	defer span.End()

	tasks, err := s.store.CompletedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}

	result := stats.Daily(from, tasks)
	s.toCache(ctx, key, result)
	return &result, nil
}

// Weekly returns the aggregate for the 7 calendar days starting at
// weekStart. This window is calendar-aligned, unlike the rolling window
// TopTasks uses.
func (s *StatsService) Weekly(ctx context.Context, weekStart time.Time) (*stats.WeeklyStats, error) {
	from, to := stats.CalendarWeek(weekStart)

	key := "stats:weekly:" + from.Format(stats.DateFormat)
	var cached stats.WeeklyStats
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	ctx, span := tcotel.StartAggregationSpan(ctx, "weekly", from, to)
	defer span.End()

	tasks, err := s.store.CompletedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("weekly stats: %w", err)
	}

	result := stats.Weekly(from, tasks)
	s.toCache(ctx, key, result)
	return &result, nil
}

// TopTasks ranks completed tasks by accumulated duration, grouped by exact
// title. period "day" covers today; period "week" covers the trailing 6
// full days plus today, rolling with the clock.
func (s *StatsService) TopTasks(ctx context.Context, period stats.Period, limit int) ([]stats.Ranking, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: period must be day or week", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = stats.DefaultRankingLimit
	}

	now := s.now()

	var from, to time.Time
	if period == stats.PeriodDay {
		from, to = stats.DayWindow(now)
	} else {
		from, to = stats.RollingWeek(now)
	}

	// The window rolls with "now", so today's date is part of the key.
	key := "stats:top:" + string(period) + ":" + strconv.Itoa(limit) + ":" + now.Format(stats.DateFormat)
	var cached []stats.Ranking
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	ctx, span := tcotel.StartAggregationSpan(ctx, "top", from, to)
	defer span.End()

	tasks, err := s.store.CompletedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("top tasks: %w", err)
	}

	result := stats.TopTasks(tasks, limit)
	s.toCache(ctx, key, result)
	return result, nil
}

// fromCache loads a cached result into dst. Cache failures are treated as
// misses; the source of truth is the store.
func (s *StatsService) fromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		if s.metrics != nil {
			s.metrics.StatsCacheMiss.Add(ctx, 1)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("discarding malformed cache entry", "key", key, "error", err)
		return false
	}
	if s.metrics != nil {
		s.metrics.StatsCacheHits.Add(ctx, 1)
	}
	return true
}

func (s *StatsService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		slog.Warn("stats cache set failed", "key", key, "error", err)
	}
}
