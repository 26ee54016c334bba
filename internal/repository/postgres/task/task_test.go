package task

import (
	"testing"
	"time"

	"productiva/backend/internal/entity"
	"productiva/backend/internal/recurrence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestTaskConfigMapping(t *testing.T) {
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	task := entity.Task{
		Frequency: strPtr(entity.FrequencyCustom),
		StartDate: &start,
		EndDate:   &end,
		Weekdays: []entity.TaskWeekday{
			{Weekday: 0},
			{Weekday: 3},
		},
		MonthDays: []entity.TaskMonthDay{
			{DayOfMonth: 15},
		},
		Schedules: []entity.TaskSchedule{
			{DayOfWeek: intPtr(2)},
		},
	}
	task.CreatedAt = created

	cfg := taskConfig(task)

	assert.Equal(t, recurrence.Custom, cfg.Frequency)
	assert.Equal(t, start, cfg.StartDate)
	assert.Equal(t, &end, cfg.EndDate)
	assert.Equal(t, created, cfg.CreatedAt)
	assert.Equal(t, []int{0, 3}, cfg.Weekdays)
	assert.Equal(t, []int{15}, cfg.MonthDays)
	require.Len(t, cfg.Slots, 1)
	assert.Equal(t, 2, *cfg.Slots[0].DayOfWeek)
}

func TestTaskConfigStartDateFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	task := entity.Task{Frequency: strPtr(entity.FrequencyDaily)}
	task.CreatedAt = created

	cfg := taskConfig(task)

	assert.True(t, cfg.StartDate.IsZero())
	assert.True(t, recurrence.OccursOn(cfg, created.AddDate(0, 0, 1)))
	assert.False(t, recurrence.OccursOn(cfg, created.AddDate(0, 0, -1)))
}

func TestParseDate(t *testing.T) {
	got, err := parseDate(strPtr("2025-04-24"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2025-04-24", got.String())

	// Timestamps from the driver carry a time part.
	got, err = parseDate(strPtr("2025-04-24T00:00:00Z"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2025-04-24", got.String())

	got, err = parseDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := ""
	got, err = parseDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseDate(strPtr("24/04/2025"))
	assert.Error(t, err)
}

func TestCompletionTimes(t *testing.T) {
	first := time.Date(2025, time.April, 21, 9, 0, 0, 0, time.UTC)
	second := time.Date(2025, time.April, 23, 9, 0, 0, 0, time.UTC)

	times := completionTimes([]entity.TaskCompletion{
		{CompletionDate: first},
		{CompletionDate: second},
	})

	assert.Equal(t, []time.Time{first, second}, times)
	assert.Empty(t, completionTimes(nil))
}
