package stats

import "time"

// windowEndOffset puts the inclusive end of a window at 23:59:59.999,
// matching the boundary the store queries with (start_time <= end).
const windowEndOffset = 24*time.Hour - time.Millisecond

// DayWindow returns the inclusive window covering the calendar day that
// contains date, in date's location.
func DayWindow(date time.Time) (from, to time.Time) {
	from = startOfDay(date)
	return from, from.Add(windowEndOffset)
}

// CalendarWeek returns the inclusive window for the 7 calendar days
// starting at weekStart. Used by weekly stats, which align to a
// caller-supplied week start.
func CalendarWeek(weekStart time.Time) (from, to time.Time) {
	from = startOfDay(weekStart)
	return from, from.AddDate(0, 0, 6).Add(windowEndOffset)
}

// RollingWeek returns the inclusive trailing-7-day window ending at the
// end of now's calendar day: the 6 previous full days plus today. Used by
// top-task rankings, which roll with "now" rather than aligning to a
// calendar week. Keep this distinct from CalendarWeek.
func RollingWeek(now time.Time) (from, to time.Time) {
	from = startOfDay(now).AddDate(0, 0, -6)
	return from, startOfDay(now).Add(windowEndOffset)
}

// StartOfWeek returns the Monday of the week containing now, at midnight.
func StartOfWeek(now time.Time) time.Time {
	diff := int(now.Weekday()) - int(time.Monday)
	if diff < 0 {
		diff += 7 // Sunday
	}
	return startOfDay(now).AddDate(0, 0, -diff)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
