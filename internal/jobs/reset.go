package jobs

import (
	"context"
	"time"

	"productiva/backend/internal/recurrence"

	"github.com/sirupsen/logrus"
)

// NewDailyResetJob builds the 05:00 worker. It repairs the cached completion
// flags against completion history (the flags are a fast path mirroring the
// same computation, and must never drift from it) and creates today's
// instance for MONTHLY tasks with an explicit matching month day.
func NewDailyResetJob(store TaskStore, guard Guard, at string) *Runner {
	hour, minute, err := ParseClock(at)
	if err != nil {
		logrus.WithError(err).Warn("daily reset: bad trigger time, using 05:00")
		hour, minute = 5, 0
	}

	return NewRunner("daily_reset", guard,
		func(now time.Time) time.Time { return NextClockTrigger(now, hour, minute) },
		func(ctx context.Context, now time.Time) error { return runDailyReset(ctx, store, now) },
	)
}

func runDailyReset(ctx context.Context, store TaskStore, now time.Time) error {
	weekStart, _ := recurrence.WeekSpan(now)
	monthStart, _ := recurrence.MonthSpan(now)

	weekly, err := store.ClearStaleWeeklyFlags(ctx, weekStart)
	if err != nil {
		return err
	}
	monthly, err := store.ClearStaleMonthlyFlags(ctx, monthStart)
	if err != nil {
		return err
	}

	created, err := createMonthDayInstances(ctx, store, now)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"weekly_flags_cleared":  weekly,
		"monthly_flags_cleared": monthly,
		"instances_created":     created,
	}).Info("daily reset: done")
	return nil
}

// createMonthDayInstances materializes today's instance for MONTHLY tasks
// configured with explicit month days, when today is one of them. Idempotent,
// same as the window scheduler.
func createMonthDayInstances(ctx context.Context, store TaskStore, today time.Time) (int, error) {
	locations, err := store.ActiveLocations(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, locationID := range locations {
		tasks, err := store.ActiveTasksByLocation(ctx, locationID)
		if err != nil {
			logrus.WithError(err).WithField("location_id", locationID).
				Error("daily reset: location failed, continuing with the rest")
			continue
		}

		err = store.InTx(ctx, func(ctx context.Context) error {
			for _, task := range tasks {
				if task.Config.Frequency != recurrence.Monthly || len(task.Config.MonthDays) == 0 {
					continue
				}
				if !recurrence.OccursOn(task.Config, today) {
					continue
				}

				exists, err := store.InstanceExists(ctx, task.ID, today)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				if err := store.CreateInstance(ctx, task.ID, today); err != nil {
					return err
				}
				created++
			}
			return nil
		})
		if err != nil {
			logrus.WithError(err).WithField("location_id", locationID).
				Error("daily reset: location failed, continuing with the rest")
		}
	}

	return created, nil
}

// NewWeeklyResetJob builds the Monday 04:00 worker: a new ISO week has begun,
// so every WEEKLY task's cached flag is cleared.
func NewWeeklyResetJob(store TaskStore, guard Guard, at string) *Runner {
	hour, minute, err := ParseClock(at)
	if err != nil {
		logrus.WithError(err).Warn("weekly reset: bad trigger time, using 04:00")
		hour, minute = 4, 0
	}

	return NewRunner("weekly_reset", guard,
		func(now time.Time) time.Time { return NextWeekdayClockTrigger(now, time.Monday, hour, minute) },
		func(ctx context.Context, now time.Time) error {
			cleared, err := store.ResetAllWeeklyFlags(ctx)
			if err != nil {
				return err
			}
			logrus.WithField("flags_cleared", cleared).Info("weekly reset: done")
			return nil
		},
	)
}
