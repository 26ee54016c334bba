package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"productiva/backend/internal/recurrence"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type instanceKey struct {
	taskID int
	date   string
}

// fakeStore is the in-memory TaskStore the job tests run against.
type fakeStore struct {
	locations []int
	tasks     map[int][]ScheduledTask
	instances map[instanceKey]int

	failTasksForLocation map[int]bool
	failCreateForTask    map[int]bool
	weeklyFlagsCleared   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:                map[int][]ScheduledTask{},
		instances:            map[instanceKey]int{},
		failTasksForLocation: map[int]bool{},
		failCreateForTask:    map[int]bool{},
	}
}

func (f *fakeStore) ActiveLocations(context.Context) ([]int, error) {
	return f.locations, nil
}

func (f *fakeStore) ActiveTasksByLocation(_ context.Context, locationID int) ([]ScheduledTask, error) {
	if f.failTasksForLocation[locationID] {
		return nil, errors.New("boom")
	}
	return f.tasks[locationID], nil
}

func (f *fakeStore) InstanceExists(_ context.Context, taskID int, date time.Time) (bool, error) {
	return f.instances[instanceKey{taskID, date.Format("2006-01-02")}] > 0, nil
}

func (f *fakeStore) CreateInstance(_ context.Context, taskID int, date time.Time) error {
	if f.failCreateForTask[taskID] {
		return errors.New("insert failed")
	}
	f.instances[instanceKey{taskID, date.Format("2006-01-02")}]++
	return nil
}

// InTx mirrors real rollback: a failing fn leaves the instance map untouched.
func (f *fakeStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[instanceKey]int, len(f.instances))
	for k, v := range f.instances {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		f.instances = snapshot
		return err
	}
	return nil
}

func (f *fakeStore) ClearStaleWeeklyFlags(context.Context, time.Time) (int64, error)  { return 0, nil }
func (f *fakeStore) ClearStaleMonthlyFlags(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeStore) ResetAllWeeklyFlags(context.Context) (int64, error) {
	f.weeklyFlagsCleared++
	return f.weeklyFlagsCleared, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScheduleWindowCreatesEightDays(t *testing.T) {
	store := newFakeStore()
	store.locations = []int{1}
	store.tasks[1] = []ScheduledTask{{
		ID:     10,
		Config: recurrence.Config{Frequency: recurrence.Daily, StartDate: day(2025, time.January, 1)},
	}}

	created, err := ScheduleWindow(context.Background(), store, day(2025, time.April, 21))
	require.NoError(t, err)
	assert.Equal(t, 8, created, "today plus the next 7 days")
}

func TestScheduleWindowIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.locations = []int{1}
	store.tasks[1] = []ScheduledTask{{
		ID:     10,
		Config: recurrence.Config{Frequency: recurrence.Daily, StartDate: day(2025, time.January, 1)},
	}}

	today := day(2025, time.April, 21)
	_, err := ScheduleWindow(context.Background(), store, today)
	require.NoError(t, err)
	created, err := ScheduleWindow(context.Background(), store, today)
	require.NoError(t, err)

	assert.Equal(t, 0, created, "second run creates nothing")
	for key, count := range store.instances {
		assert.Equal(t, 1, count, "never two instances for %v", key)
	}
}

func TestScheduleWindowCustomWeekdaysOnly(t *testing.T) {
	store := newFakeStore()
	store.locations = []int{1}
	store.tasks[1] = []ScheduledTask{{
		ID: 10,
		Config: recurrence.Config{
			Frequency: recurrence.Custom,
			StartDate: day(2025, time.January, 1),
			Weekdays:  []int{0}, // Mondays
		},
	}}

	// Window Mon 2025-04-21 .. Mon 2025-04-28 contains two Mondays.
	created, err := ScheduleWindow(context.Background(), store, day(2025, time.April, 21))
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}

func TestScheduleWindowRespectsEndDate(t *testing.T) {
	end := day(2025, time.April, 23)
	store := newFakeStore()
	store.locations = []int{1}
	store.tasks[1] = []ScheduledTask{{
		ID: 10,
		Config: recurrence.Config{
			Frequency: recurrence.Daily,
			StartDate: day(2025, time.January, 1),
			EndDate:   &end,
		},
	}}

	created, err := ScheduleWindow(context.Background(), store, day(2025, time.April, 21))
	require.NoError(t, err)
	assert.Equal(t, 3, created, "21st, 22nd, 23rd only")
}

func TestScheduleWindowLocationFailureIsIsolated(t *testing.T) {
	store := newFakeStore()
	store.locations = []int{1, 2, 3}
	store.failTasksForLocation[2] = true
	for _, loc := range []int{1, 3} {
		store.tasks[loc] = []ScheduledTask{{
			ID:     loc * 10,
			Config: recurrence.Config{Frequency: recurrence.Daily, StartDate: day(2025, time.January, 1)},
		}}
	}

	created, err := ScheduleWindow(context.Background(), store, day(2025, time.April, 21))
	require.NoError(t, err, "a failing location does not abort the run")
	assert.Equal(t, 16, created, "both healthy locations fully processed")
}

func TestScheduleWindowCountExcludesRolledBackBatches(t *testing.T) {
	store := newFakeStore()
	store.locations = []int{1}
	store.tasks[1] = []ScheduledTask{
		{
			ID:     10,
			Config: recurrence.Config{Frequency: recurrence.Daily, StartDate: day(2025, time.January, 1)},
		},
		{
			ID:     11,
			Config: recurrence.Config{Frequency: recurrence.Daily, StartDate: day(2025, time.January, 1)},
		},
	}
	store.failCreateForTask[11] = true

	// Task 10's insert succeeds inside each batch, but task 11 fails the
	// batch, so every batch rolls back and nothing persists.
	created, err := ScheduleWindow(context.Background(), store, day(2025, time.April, 21))
	require.NoError(t, err, "a failing location does not abort the run")
	assert.Equal(t, 0, created, "rolled-back inserts are not counted")
	assert.Empty(t, store.instances)
}

func TestDailyResetCreatesMonthDayInstances(t *testing.T) {
	store := newFakeStore()
	store.locations = []int{1}
	store.tasks[1] = []ScheduledTask{
		{
			ID: 10,
			Config: recurrence.Config{
				Frequency: recurrence.Monthly,
				StartDate: day(2025, time.January, 1),
				MonthDays: []int{15},
			},
		},
		{
			// No explicit days: left to the window scheduler.
			ID:     11,
			Config: recurrence.Config{Frequency: recurrence.Monthly, StartDate: day(2025, time.January, 1)},
		},
	}

	require.NoError(t, runDailyReset(context.Background(), store, day(2025, time.April, 15)))
	assert.Equal(t, 1, store.instances[instanceKey{10, "2025-04-15"}])
	assert.Zero(t, store.instances[instanceKey{11, "2025-04-15"}])

	// Not an eligible day: nothing created.
	require.NoError(t, runDailyReset(context.Background(), store, day(2025, time.April, 16)))
	assert.Zero(t, store.instances[instanceKey{10, "2025-04-16"}])
}

func TestScheduleWindowManyTasks(t *testing.T) {
	store := newFakeStore()
	store.locations = []int{1}
	for i := 0; i < 5; i++ {
		store.tasks[1] = append(store.tasks[1], ScheduledTask{
			ID:     100 + i,
			Config: recurrence.Config{Frequency: recurrence.Daily, StartDate: day(2025, time.January, 1)},
		})
	}

	created, err := ScheduleWindow(context.Background(), store, day(2025, time.April, 21))
	require.NoError(t, err)
	assert.Equal(t, 40, created)

	for i := 0; i < 5; i++ {
		key := instanceKey{100 + i, "2025-04-21"}
		assert.Equal(t, 1, store.instances[key], fmt.Sprintf("task %d", 100+i))
	}
}
