// Package recurrence decides whether a recurring task is due on a calendar
// date. It is pure: configuration plus completion history in, bool out. Every
// caller (the live "due today" path, the schedule-row fallback, the instance
// scheduler) goes through this one implementation so the per-frequency rules
// cannot drift apart.
package recurrence

import "time"

type Frequency string

const (
	Daily    Frequency = "DAILY"
	Weekly   Frequency = "WEEKLY"
	Biweekly Frequency = "BIWEEKLY"
	Monthly  Frequency = "MONTHLY"
	Custom   Frequency = "CUSTOM"
)

// Slot is one explicit per-slot schedule row: a day-of-week (Monday-based
// 0..6) or a day-of-month. Used only by the fallback path for tasks configured
// slot by slot instead of by frequency.
type Slot struct {
	DayOfWeek  *int
	DayOfMonth *int
}

// Config is the schedule-relevant slice of a task.
type Config struct {
	Frequency Frequency
	StartDate time.Time // zero means fall back to CreatedAt
	EndDate   *time.Time
	CreatedAt time.Time
	Weekdays  []int // CUSTOM pattern, Monday-based 0..6
	MonthDays []int // MONTHLY explicit eligible days
	Slots     []Slot
}

type rule interface {
	// due applies the frequency's eligibility plus completion suppression.
	due(cfg Config, completions []time.Time, on time.Time) bool
	// occurs applies eligibility only. Instances are pre-created for every
	// date the task's period covers, even if a completion would currently
	// suppress the live due display.
	occurs(cfg Config, on time.Time) bool
}

var rules = map[Frequency]rule{
	Daily:    dailyRule{},
	Weekly:   weeklyRule{},
	Biweekly: biweeklyRule{},
	Monthly:  monthlyRule{},
	Custom:   customRule{},
}

// IsDue reports whether the task is due on the given date: in range, eligible
// for the date, and not already completed within the date's period.
func IsDue(cfg Config, completions []time.Time, on time.Time) bool {
	if !inRange(cfg, on) {
		return false
	}
	if r, ok := rules[cfg.Frequency]; ok {
		return r.due(cfg, completions, on)
	}
	return slotActive(cfg.Slots, on)
}

// OccursOn reports whether the instance scheduler should materialize this task
// for the given date. Unlike IsDue it never consults completion history.
func OccursOn(cfg Config, on time.Time) bool {
	if !inRange(cfg, on) {
		return false
	}
	if r, ok := rules[cfg.Frequency]; ok {
		return r.occurs(cfg, on)
	}
	return slotActive(cfg.Slots, on)
}

func inRange(cfg Config, on time.Time) bool {
	day := dayKey(on)
	start := cfg.StartDate
	if start.IsZero() {
		start = cfg.CreatedAt
	}
	if !start.IsZero() && day < dayKey(start) {
		return false
	}
	if cfg.EndDate != nil && day > dayKey(*cfg.EndDate) {
		return false
	}
	return true
}

func slotActive(slots []Slot, on time.Time) bool {
	for _, s := range slots {
		if s.DayOfWeek != nil && *s.DayOfWeek == mondayIndex(on) {
			return true
		}
		if s.DayOfMonth != nil && *s.DayOfMonth == on.Day() {
			return true
		}
	}
	return false
}

type dailyRule struct{}

func (dailyRule) due(Config, []time.Time, time.Time) bool { return true }
func (dailyRule) occurs(Config, time.Time) bool           { return true }

type weeklyRule struct{}

func (weeklyRule) due(_ Config, completions []time.Time, on time.Time) bool {
	start, end := WeekSpan(on)
	return !completedWithin(completions, start, end)
}
func (weeklyRule) occurs(Config, time.Time) bool { return true }

type biweeklyRule struct{}

func (biweeklyRule) due(_ Config, completions []time.Time, on time.Time) bool {
	start, end := QuincenaSpan(on)
	return !completedWithin(completions, start, end)
}
func (biweeklyRule) occurs(Config, time.Time) bool { return true }

type monthlyRule struct{}

func (monthlyRule) due(cfg Config, completions []time.Time, on time.Time) bool {
	if !monthDayEligible(cfg, on) {
		return false
	}
	start, end := MonthSpan(on)
	return !completedWithin(completions, start, end)
}

func (monthlyRule) occurs(cfg Config, on time.Time) bool {
	return monthDayEligible(cfg, on)
}

func monthDayEligible(cfg Config, on time.Time) bool {
	if len(cfg.MonthDays) == 0 {
		return true
	}
	for _, d := range cfg.MonthDays {
		if d == on.Day() {
			return true
		}
	}
	return false
}

type customRule struct{}

// CUSTOM is a fixed weekly pattern, not a "completed" frequency: there is no
// completion suppression.
func (customRule) due(cfg Config, _ []time.Time, on time.Time) bool {
	return weekdayEligible(cfg, on)
}

func (customRule) occurs(cfg Config, on time.Time) bool {
	return weekdayEligible(cfg, on)
}

func weekdayEligible(cfg Config, on time.Time) bool {
	for _, wd := range cfg.Weekdays {
		if wd == mondayIndex(on) {
			return true
		}
	}
	return false
}

func completedWithin(completions []time.Time, start, end time.Time) bool {
	from, to := dayKey(start), dayKey(end)
	for _, c := range completions {
		if k := dayKey(c); k >= from && k <= to {
			return true
		}
	}
	return false
}
