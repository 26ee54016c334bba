package workhours

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The company cascade must run on the raw database/sql transaction so its $N
// placeholders bind server-side.
var _ func(context.Context, *sql.Tx, int, int, int, int, float64) error = Repository{}.updateCompanyWorkHours

func ts(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestCalculateHoursWorked(t *testing.T) {
	in := ts(2025, time.April, 24, 9, 0)
	out := ts(2025, time.April, 24, 17, 0)
	assert.Equal(t, 8.0, CalculateHoursWorked(&in, &out))

	// Overnight shift: checkout before check-in means the next calendar day.
	in = ts(2025, time.April, 24, 22, 0)
	out = ts(2025, time.April, 25, 6, 0)
	assert.Equal(t, 8.0, CalculateHoursWorked(&in, &out))

	// Same-day times with out < in wrap by 24h too.
	in = ts(2025, time.April, 24, 22, 0)
	out = ts(2025, time.April, 24, 6, 0)
	assert.Equal(t, 8.0, CalculateHoursWorked(&in, &out))

	assert.Equal(t, 0.0, CalculateHoursWorked(&in, nil))
	assert.Equal(t, 0.0, CalculateHoursWorked(nil, &out))
	assert.Equal(t, 0.0, CalculateHoursWorked(nil, nil))
}

func TestCalculateHoursWorkedIsExact(t *testing.T) {
	in := ts(2025, time.April, 24, 9, 0)
	out := in.Add(7*time.Hour + 50*time.Minute)

	got := CalculateHoursWorked(&in, &out)
	assert.InDelta(t, 7.833333, got, 1e-6, "calculation is exact, not pre-rounded")
	assert.Equal(t, 7.83, Round2(got))
}

func TestPeriodKeyISOWeekYearBoundary(t *testing.T) {
	// 2024-12-30 is a Monday in ISO week 1 of 2025.
	year, month, week := PeriodKey(ts(2024, time.December, 30, 8, 0))
	assert.Equal(t, 2025, year)
	assert.Equal(t, 1, week)
	assert.Equal(t, 12, month, "month stays the calendar month")

	// 2025-01-01 falls in the same ISO week: same (year, week) key.
	y2, _, w2 := PeriodKey(ts(2025, time.January, 1, 8, 0))
	assert.Equal(t, year, y2)
	assert.Equal(t, week, w2)

	// And 2021-01-01 belongs to ISO week 53 of 2020.
	year, _, week = PeriodKey(ts(2021, time.January, 1, 8, 0))
	assert.Equal(t, 2020, year)
	assert.Equal(t, 53, week)
}

func TestEvaluateWeeklyCap(t *testing.T) {
	// No cap configured: always compliant, regardless of hours.
	check := EvaluateWeeklyCap(90, 20, nil)
	assert.True(t, check.Compliant)
	assert.False(t, check.HasCap)
	assert.Equal(t, 110.0, check.ProposedTotal)

	capHours := 40.0

	check = EvaluateWeeklyCap(32, 8, &capHours)
	assert.True(t, check.Compliant)
	assert.Equal(t, 0.0, check.Margin)
	assert.Equal(t, 0.0, check.Excess)

	check = EvaluateWeeklyCap(30, 6, &capHours)
	assert.True(t, check.Compliant)
	assert.Equal(t, 4.0, check.Margin)

	check = EvaluateWeeklyCap(38, 5, &capHours)
	assert.False(t, check.Compliant)
	assert.Equal(t, 43.0, check.ProposedTotal)
	assert.Equal(t, 3.0, check.Excess)
	assert.Equal(t, 0.0, check.Margin)
}

func TestEvaluateWeeklyCapIsPure(t *testing.T) {
	capHours := 40.0
	first := EvaluateWeeklyCap(38, 5, &capHours)
	second := EvaluateWeeklyCap(38, 5, &capHours)
	assert.Equal(t, first, second, "identical inputs, identical outputs, no side effects")
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.83, Round2(7.8333333))
	assert.Equal(t, 7.84, Round2(7.836))
	assert.Equal(t, 0.0, Round2(0.004))
	assert.Equal(t, 0.01, Round2(0.006))

	// Correction deltas go through Round2 too, negatives included.
	assert.Equal(t, -0.5, Round2(7.5-8.0))
	assert.Equal(t, -7.83, Round2(-7.8333333))
}
