package jobs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// retryDelay caps how long a runner waits after a failed iteration before
// trying again.
const retryDelay = time.Hour

// ErrUnknownJob is returned for lookups of a job name nothing registered.
var ErrUnknownJob = fmt.Errorf("unknown job")

// Status is the admin-facing snapshot of one runner.
type Status struct {
	Name          string     `json:"name"`
	Active        bool       `json:"active"`
	Running       bool       `json:"running"`
	LastRun       *time.Time `json:"last_run,omitempty"`
	LastResetDate *string    `json:"last_reset_date,omitempty"`
	NextRun       *time.Time `json:"next_run,omitempty"`
}

// Runner is the explicit job context for one background worker: its guard,
// its trigger schedule, its run body and its lifecycle state. There is no
// package-level mutable state; whoever starts the job holds the handle.
type Runner struct {
	name  string
	guard Guard
	next  func(now time.Time) time.Time
	run   func(ctx context.Context, now time.Time) error

	mu            sync.Mutex
	active        bool
	stopping      bool
	running       bool
	lastRun       *time.Time
	lastResetDate *string
	stop          chan struct{}
	done          chan struct{}
}

func NewRunner(name string, guard Guard, next func(now time.Time) time.Time, run func(ctx context.Context, now time.Time) error) *Runner {
	return &Runner{name: name, guard: guard, next: next, run: run}
}

// Start acquires the cross-process guard and launches the worker goroutine.
// It returns false without error noise when the job is already active in this
// process or when another process holds the lock; both are normal outcomes.
func (r *Runner) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return false
	}

	acquired, err := r.guard.Acquire()
	if err != nil {
		logrus.WithError(err).WithField("job", r.name).Error("jobs: acquiring lock")
		return false
	}
	if !acquired {
		logrus.WithField("job", r.name).Info("jobs: already running in another process")
		return false
	}

	r.active = true
	r.stopping = false
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.loop()

	logrus.WithField("job", r.name).Info("jobs: started")
	return true
}

// Stop requests the worker to exit and waits for it. Stopping an already
// stopped runner is a no-op. The in-progress wait is cancelled immediately;
// an in-progress run finishes first.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.active || r.stopping {
		r.mu.Unlock()
		return
	}
	r.stopping = true
	close(r.stop)
	done := r.done
	r.mu.Unlock()

	<-done
	logrus.WithField("job", r.name).Info("jobs: stopped")
}

func (r *Runner) loop() {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.WithField("job", r.name).Errorf("jobs: fatal loop error: %v", rec)
		}
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		if err := r.guard.Release(); err != nil {
			logrus.WithError(err).WithField("job", r.name).Error("jobs: releasing lock")
		}
		close(r.done)
	}()

	for {
		now := time.Now()
		// Sleep the exact duration to the next trigger instant; no polling.
		timer := time.NewTimer(r.next(now).Sub(now))
		select {
		case <-r.stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := r.runOnce(context.Background()); err != nil {
			logrus.WithError(err).WithField("job", r.name).Error("jobs: iteration failed, retrying after fallback delay")
			select {
			case <-r.stop:
				return
			case <-time.After(retryDelay):
			}
		}
	}
}

// RunNow executes the job body synchronously, off schedule. It is the same
// function the scheduled loop calls.
func (r *Runner) RunNow(ctx context.Context) error {
	return r.runOnce(ctx)
}

func (r *Runner) runOnce(ctx context.Context) error {
	now := time.Now()

	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	err := r.run(ctx, now)

	r.mu.Lock()
	r.running = false
	if err == nil {
		t := now
		d := now.Format("2006-01-02")
		r.lastRun = &t
		r.lastResetDate = &d
	}
	r.mu.Unlock()

	return err
}

// Status reports the current lifecycle snapshot.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Status{
		Name:          r.name,
		Active:        r.active,
		Running:       r.running,
		LastRun:       r.lastRun,
		LastResetDate: r.lastResetDate,
	}
	if r.active {
		next := r.next(time.Now())
		s.NextRun = &next
	}
	return s
}

func (r *Runner) Name() string { return r.name }

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	return hour, minute, nil
}

// NextClockTrigger returns the next instant at hour:minute strictly after now.
func NextClockTrigger(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// NextWeekdayClockTrigger returns the next instant at hour:minute on the
// given weekday strictly after now.
func NextWeekdayClockTrigger(now time.Time, weekday time.Weekday, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
