package recurrence

import "time"

// mondayIndex maps a date's weekday to the Monday-based index used by task
// weekday configuration: 0 = Monday .. 6 = Sunday.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// dayKey collapses a timestamp to a comparable calendar-day key in its own
// location, so span checks never depend on time-of-day or zone offsets.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekSpan returns the Monday..Sunday span containing t.
func WeekSpan(t time.Time) (time.Time, time.Time) {
	monday := dateOnly(t).AddDate(0, 0, -mondayIndex(t))
	return monday, monday.AddDate(0, 0, 6)
}

// QuincenaSpan returns the half-month span containing t: days 1-15, or day 16
// through the true last day of the month.
func QuincenaSpan(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	if t.Day() <= 15 {
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location()),
			time.Date(y, m, 15, 0, 0, 0, 0, t.Location())
	}
	return time.Date(y, m, 16, 0, 0, 0, 0, t.Location()),
		time.Date(y, m, lastDayOfMonth(y, m), 0, 0, 0, 0, t.Location())
}

// MonthSpan returns the calendar-month span containing t.
func MonthSpan(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location()),
		time.Date(y, m, lastDayOfMonth(y, m), 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
