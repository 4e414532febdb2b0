// Package stats implements the aggregation engine over completed tasks:
// daily and weekly totals, category breakdowns, and top-task rankings.
//
// All functions are pure: they operate on a slice of tasks the caller has
// already fetched for the relevant window. "First seen" ordering (category
// breakdown order, ranking tie order, the category attached to a title
// group) follows slice order.
package stats

import (
	"sort"
	"time"

	"github.com/plattdot/timeclock/internal/domain/task"
)

// DateFormat is the calendar-day format used at the API boundary.
const DateFormat = "2006-01-02"

// CategoryStat is one category's share of a window.
type CategoryStat struct {
	Category   task.Category `json:"category"`
	Duration   int           `json:"duration"`
	Percentage float64       `json:"percentage"`
}

// DayDuration is one calendar day's total within a weekly breakdown.
type DayDuration struct {
	Date     string `json:"date"`
	Duration int    `json:"duration"`
}

// DailyStats aggregates one calendar day.
type DailyStats struct {
	Date              string         `json:"date"`
	TotalDuration     int            `json:"totalDuration"`
	TaskCount         int            `json:"taskCount"`
	CategoryBreakdown []CategoryStat `json:"categoryBreakdown"`
}

// WeeklyStats aggregates a calendar week starting at WeekStart.
type WeeklyStats struct {
	WeekStart         string         `json:"weekStart"`
	WeekEnd           string         `json:"weekEnd"`
	TotalDuration     int            `json:"totalDuration"`
	DailyBreakdown    []DayDuration  `json:"dailyBreakdown"`
	CategoryBreakdown []CategoryStat `json:"categoryBreakdown"`
}

// Ranking is one entry of a top-task list: all tasks sharing an exact
// title, summed. Category comes from the first occurrence of the title.
type Ranking struct {
	Title         string        `json:"title"`
	Category      task.Category `json:"category"`
	TotalDuration int           `json:"totalDuration"`
	Occurrences   int           `json:"occurrences"`
}

// DefaultRankingLimit is the top-task list size when the caller gives none.
const DefaultRankingLimit = 5

// Period selects the ranking window: today, or the rolling trailing week.
type Period string

const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week"
)

// Valid reports whether p is a known ranking period.
func (p Period) Valid() bool {
	return p == PeriodDay || p == PeriodWeek
}

// Daily computes the aggregate for the calendar day containing date.
// tasks must be the completed tasks whose start time falls in that day.
func Daily(date time.Time, tasks []task.Task) DailyStats {
	total, breakdown := categoryBreakdown(tasks)
	return DailyStats{
		Date:              date.Format(DateFormat),
		TotalDuration:     total,
		TaskCount:         len(tasks),
		CategoryBreakdown: breakdown,
	}
}

// Weekly computes the aggregate for the 7 calendar days starting at
// weekStart. The daily breakdown always has exactly 7 entries in
// chronological order, zero-filled for days without tasks.
func Weekly(weekStart time.Time, tasks []task.Task) WeeklyStats {
	total, breakdown := categoryBreakdown(tasks)

	daily := make([]DayDuration, 7)
	index := make(map[string]int, 7)
	for i := range daily {
		date := weekStart.AddDate(0, 0, i).Format(DateFormat)
		daily[i] = DayDuration{Date: date}
		index[date] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.StartTime.Format(DateFormat)]; ok {
			daily[i].Duration += minutes(t)
		}
	}

	return WeeklyStats{
		WeekStart:         weekStart.Format(DateFormat),
		WeekEnd:           weekStart.AddDate(0, 0, 6).Format(DateFormat),
		TotalDuration:     total,
		DailyBreakdown:    daily,
		CategoryBreakdown: breakdown,
	}
}

// TopTasks groups tasks by exact title (case-sensitive, no trimming),
// sums durations and occurrences per group, and returns the top groups by
// total duration. Ties keep encounter order; the result is truncated to
// limit entries.
func TopTasks(tasks []task.Task, limit int) []Ranking {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	index := make(map[string]int)
	rankings := make([]Ranking, 0)
	for _, t := range tasks {
		i, ok := index[t.Title]
		if !ok {
			index[t.Title] = len(rankings)
			rankings = append(rankings, Ranking{Title: t.Title, Category: t.Category})
			i = len(rankings) - 1
		}
		rankings[i].TotalDuration += minutes(t)
		rankings[i].Occurrences++
	}

	sort.SliceStable(rankings, func(a, b int) bool {
		return rankings[a].TotalDuration > rankings[b].TotalDuration
	})
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings
}

// categoryBreakdown sums durations per category in first-seen order.
// Categories absent from tasks are omitted, not zero-filled.
func categoryBreakdown(tasks []task.Task) (total int, breakdown []CategoryStat) {
	index := make(map[task.Category]int)
	breakdown = make([]CategoryStat, 0)
	for _, t := range tasks {
		d := minutes(t)
		total += d
		i, ok := index[t.Category]
		if !ok {
			index[t.Category] = len(breakdown)
			breakdown = append(breakdown, CategoryStat{Category: t.Category})
			i = len(breakdown) - 1
		}
		breakdown[i].Duration += d
	}
	for i := range breakdown {
		if total > 0 {
			breakdown[i].Percentage = float64(breakdown[i].Duration) / float64(total) * 100
		}
	}
	return total, breakdown
}

// minutes returns the task's duration, treating an absent duration as 0.
func minutes(t task.Task) int {
	if t.Duration == nil {
		return 0
	}
	return *t.Duration
}
