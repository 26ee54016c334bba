package jobs

import (
	"context"
	"time"

	"productiva/backend/internal/recurrence"

	"github.com/sirupsen/logrus"
)

// lookAheadDays is the rolling window the instance scheduler materializes:
// today plus the next 7 days.
const lookAheadDays = 7

// ScheduledTask is the schedule-relevant slice of a task the store hands the
// scheduler.
type ScheduledTask struct {
	ID     int
	Config recurrence.Config
}

// TaskStore is the persistence surface the background jobs run against. The
// postgres task repository implements it; tests use an in-memory fake.
type TaskStore interface {
	ActiveLocations(ctx context.Context) ([]int, error)
	ActiveTasksByLocation(ctx context.Context, locationID int) ([]ScheduledTask, error)
	InstanceExists(ctx context.Context, taskID int, date time.Time) (bool, error)
	CreateInstance(ctx context.Context, taskID int, date time.Time) error

	// InTx runs fn inside one transaction and rolls back when fn fails.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error

	// ClearStaleWeeklyFlags clears current_week_completed on WEEKLY tasks with
	// no completion since weekStart; ClearStaleMonthlyFlags is the MONTHLY
	// equivalent since monthStart. Both return how many rows changed.
	ClearStaleWeeklyFlags(ctx context.Context, weekStart time.Time) (int64, error)
	ClearStaleMonthlyFlags(ctx context.Context, monthStart time.Time) (int64, error)

	// ResetAllWeeklyFlags clears current_week_completed on every WEEKLY task;
	// the weekly reset job calls it when a new ISO week begins.
	ResetAllWeeklyFlags(ctx context.Context) (int64, error)
}

// ScheduleWindow materializes task instances for every active location over
// [today, today+7]. Creation is idempotent: an existing (task, date) instance
// is never duplicated. A location that fails is logged and skipped; the
// remaining locations are still processed.
func ScheduleWindow(ctx context.Context, store TaskStore, today time.Time) (int, error) {
	locations, err := store.ActiveLocations(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, locationID := range locations {
		n, err := scheduleLocation(ctx, store, locationID, today)
		created += n
		if err != nil {
			logrus.WithError(err).WithField("location_id", locationID).
				Error("scheduler: location failed, continuing with the rest")
			continue
		}
	}

	return created, nil
}

func scheduleLocation(ctx context.Context, store TaskStore, locationID int, today time.Time) (int, error) {
	tasks, err := store.ActiveTasksByLocation(ctx, locationID)
	if err != nil {
		return 0, err
	}

	created := 0
	for offset := 0; offset <= lookAheadDays; offset++ {
		day := today.AddDate(0, 0, offset)

		// One transaction per location-plus-date batch; a failure rolls the
		// batch back without touching the dates already committed. The batch's
		// count lands in the total only after the commit, so rolled-back
		// inserts are never reported as created.
		batch := 0
		err := store.InTx(ctx, func(ctx context.Context) error {
			batch = 0
			for _, task := range tasks {
				// Eligibility only: instances represent "this task's period
				// includes this date". Completion suppression belongs to the
				// live due display, not to scheduling.
				if !recurrence.OccursOn(task.Config, day) {
					continue
				}

				exists, err := store.InstanceExists(ctx, task.ID, day)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				if err := store.CreateInstance(ctx, task.ID, day); err != nil {
					return err
				}
				batch++
			}
			return nil
		})
		if err != nil {
			return created, err
		}
		created += batch
	}

	return created, nil
}

// NewInstanceSchedulerJob builds the runner for the daily look-ahead
// scheduler. at is "HH:MM" local wall clock.
func NewInstanceSchedulerJob(store TaskStore, guard Guard, at string) *Runner {
	hour, minute, err := ParseClock(at)
	if err != nil {
		logrus.WithError(err).Warn("scheduler: bad trigger time, using 03:00")
		hour, minute = 3, 0
	}

	return NewRunner("instance_scheduler", guard,
		func(now time.Time) time.Time { return NextClockTrigger(now, hour, minute) },
		func(ctx context.Context, now time.Time) error {
			created, err := ScheduleWindow(ctx, store, now)
			if err != nil {
				return err
			}
			logrus.WithField("created", created).Info("scheduler: window materialized")
			return nil
		},
	)
}
