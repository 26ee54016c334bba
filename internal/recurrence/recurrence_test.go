package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyDueEveryInRangeDate(t *testing.T) {
	cfg := Config{Frequency: Daily, StartDate: date(2025, time.January, 1)}

	assert.True(t, IsDue(cfg, nil, date(2025, time.January, 1)))
	assert.True(t, IsDue(cfg, nil, date(2025, time.July, 19)))
	assert.False(t, IsDue(cfg, nil, date(2024, time.December, 31)), "before start")

	end := date(2025, time.March, 1)
	cfg.EndDate = &end
	assert.False(t, IsDue(cfg, nil, date(2025, time.March, 2)), "after end")
	assert.True(t, IsDue(cfg, nil, end), "end date itself is in range")
}

func TestStartDateFallsBackToCreatedAt(t *testing.T) {
	cfg := Config{Frequency: Daily, CreatedAt: time.Date(2025, time.May, 10, 14, 30, 0, 0, time.UTC)}

	assert.False(t, IsDue(cfg, nil, date(2025, time.May, 9)))
	assert.True(t, IsDue(cfg, nil, date(2025, time.May, 10)))
}

func TestWeeklySuppressionWithinISOWeek(t *testing.T) {
	cfg := Config{Frequency: Weekly, StartDate: date(2025, time.January, 1)}

	// 2025-04-21 is a Monday.
	monday := date(2025, time.April, 21)
	for i := 0; i < 7; i++ {
		assert.True(t, IsDue(cfg, nil, monday.AddDate(0, 0, i)), "no completions: due all week")
	}

	// One completion on Wednesday suppresses Thu-Sun of the same week.
	completions := []time.Time{time.Date(2025, time.April, 23, 18, 45, 0, 0, time.UTC)}
	for i := 0; i < 7; i++ {
		assert.False(t, IsDue(cfg, completions, monday.AddDate(0, 0, i)))
	}

	// Due again from the following Monday.
	assert.True(t, IsDue(cfg, completions, monday.AddDate(0, 0, 7)))
	// And the completion has no effect on the previous week either.
	assert.True(t, IsDue(cfg, completions, monday.AddDate(0, 0, -1)))
}

func TestWeeklySpanCrossesMonthBoundary(t *testing.T) {
	cfg := Config{Frequency: Weekly, StartDate: date(2025, time.January, 1)}

	// Week of 2025-06-30 (Mon) .. 2025-07-06 (Sun).
	completions := []time.Time{date(2025, time.June, 30)}
	assert.False(t, IsDue(cfg, completions, date(2025, time.July, 6)))
	assert.True(t, IsDue(cfg, completions, date(2025, time.July, 7)))
}

func TestBiweeklyQuincenaSuppression(t *testing.T) {
	cfg := Config{Frequency: Biweekly, StartDate: date(2025, time.January, 1)}

	completions := []time.Time{date(2025, time.March, 3)}
	assert.False(t, IsDue(cfg, completions, date(2025, time.March, 15)), "same first quincena")
	assert.True(t, IsDue(cfg, completions, date(2025, time.March, 16)), "second quincena is a fresh period")

	completions = []time.Time{date(2025, time.March, 31)}
	assert.False(t, IsDue(cfg, completions, date(2025, time.March, 16)))
	assert.True(t, IsDue(cfg, completions, date(2025, time.April, 1)))
}

func TestMonthlyScenario(t *testing.T) {
	// MONTHLY task, start 2025-01-01, no explicit month days.
	cfg := Config{Frequency: Monthly, StartDate: date(2025, time.January, 1)}

	assert.True(t, IsDue(cfg, nil, date(2025, time.March, 5)))

	completions := []time.Time{date(2025, time.March, 10)}
	assert.False(t, IsDue(cfg, completions, date(2025, time.March, 20)))
	assert.True(t, IsDue(cfg, completions, date(2025, time.April, 2)), "new month")
}

func TestMonthlyExplicitDaysConstrainEligibility(t *testing.T) {
	cfg := Config{
		Frequency: Monthly,
		StartDate: date(2025, time.January, 1),
		MonthDays: []int{1, 15},
	}

	assert.True(t, IsDue(cfg, nil, date(2025, time.June, 1)))
	assert.True(t, IsDue(cfg, nil, date(2025, time.June, 15)))
	assert.False(t, IsDue(cfg, nil, date(2025, time.June, 10)), "not a configured day")

	// Completion suppression still applies uniformly on eligible days.
	completions := []time.Time{date(2025, time.June, 1)}
	assert.False(t, IsDue(cfg, completions, date(2025, time.June, 15)))
}

func TestCustomWeekdayPattern(t *testing.T) {
	// Monday and Thursday: monday-based indexes 0 and 3.
	cfg := Config{
		Frequency: Custom,
		StartDate: date(2025, time.January, 1),
		Weekdays:  []int{0, 3},
	}

	assert.True(t, IsDue(cfg, nil, date(2025, time.April, 21)), "Monday")
	assert.True(t, IsDue(cfg, nil, date(2025, time.April, 24)), "Thursday")
	assert.False(t, IsDue(cfg, nil, date(2025, time.April, 22)), "Tuesday")

	// No completion suppression for CUSTOM, it is a fixed pattern.
	completions := []time.Time{date(2025, time.April, 21)}
	assert.True(t, IsDue(cfg, completions, date(2025, time.April, 24)))
}

func TestSlotFallbackWhenFrequencyUnknown(t *testing.T) {
	wednesday := 2
	day28 := 28
	cfg := Config{
		Frequency: Frequency(""),
		StartDate: date(2025, time.January, 1),
		Slots: []Slot{
			{DayOfWeek: &wednesday},
			{DayOfMonth: &day28},
		},
	}

	assert.True(t, IsDue(cfg, nil, date(2025, time.April, 23)), "a Wednesday")
	assert.True(t, IsDue(cfg, nil, date(2025, time.April, 28)))
	assert.False(t, IsDue(cfg, nil, date(2025, time.April, 24)))

	assert.True(t, OccursOn(cfg, date(2025, time.April, 23)))
}

func TestOccursOnIgnoresCompletions(t *testing.T) {
	cfg := Config{Frequency: Weekly, StartDate: date(2025, time.January, 1)}

	// Completed Wednesday: the live due display is suppressed for the rest of
	// the week but instances are still pre-created for those dates.
	on := date(2025, time.April, 25)
	completions := []time.Time{date(2025, time.April, 23)}

	assert.False(t, IsDue(cfg, completions, on))
	assert.True(t, OccursOn(cfg, on))

	// Range checks still apply to scheduling.
	assert.False(t, OccursOn(cfg, date(2024, time.December, 31)))
}

func TestQuincenaSpanEndsOnTrueMonthEnd(t *testing.T) {
	cases := []struct {
		on      time.Time
		wantEnd time.Time
	}{
		{date(2025, time.February, 20), date(2025, time.February, 28)}, // non-leap Feb
		{date(2024, time.February, 20), date(2024, time.February, 29)}, // leap Feb
		{date(2025, time.April, 20), date(2025, time.April, 30)},       // 30-day month
		{date(2025, time.March, 20), date(2025, time.March, 31)},       // 31-day month
	}

	for _, tc := range cases {
		start, end := QuincenaSpan(tc.on)
		require.Equal(t, 16, start.Day())
		assert.Equal(t, tc.wantEnd, end, "quincena end for %s", tc.on.Format("2006-01"))
	}

	start, end := QuincenaSpan(date(2025, time.February, 3))
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 15, end.Day())
}

func TestWeekSpanIsMondayToSunday(t *testing.T) {
	// 2025-01-01 is a Wednesday; its week is 2024-12-30 .. 2025-01-05.
	start, end := WeekSpan(date(2025, time.January, 1))
	assert.Equal(t, date(2024, time.December, 30), start)
	assert.Equal(t, date(2025, time.January, 5), end)

	// A Monday is its own span start, a Sunday its own span end.
	start, _ = WeekSpan(date(2025, time.April, 21))
	assert.Equal(t, date(2025, time.April, 21), start)
	_, end = WeekSpan(date(2025, time.April, 27))
	assert.Equal(t, date(2025, time.April, 27), end)
}
