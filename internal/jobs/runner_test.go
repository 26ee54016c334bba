package jobs

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuard struct {
	held     bool
	acquired int
	released int
}

func (g *fakeGuard) Acquire() (bool, error) {
	g.acquired++
	if g.held {
		return false, nil
	}
	g.held = true
	return true, nil
}

func (g *fakeGuard) Release() error {
	g.held = false
	g.released++
	return nil
}

func farFuture(now time.Time) time.Time { return now.Add(24 * time.Hour) }

func TestRunnerStartStopStateMachine(t *testing.T) {
	guard := &fakeGuard{}
	r := NewRunner("test_job", guard, farFuture, func(context.Context, time.Time) error { return nil })

	require.True(t, r.Start())
	assert.True(t, r.Status().Active)

	// Idempotent start: second start is a no-op returning false, and it must
	// not re-acquire the guard.
	assert.False(t, r.Start())
	assert.Equal(t, 1, guard.acquired)

	r.Stop()
	assert.False(t, r.Status().Active)
	assert.Equal(t, 1, guard.released, "lock released on stop")

	// Idempotent stop.
	r.Stop()
	assert.Equal(t, 1, guard.released)

	// A stopped runner can be started again.
	require.True(t, r.Start())
	r.Stop()
}

func TestRunnerStartFailsWhenLockHeldElsewhere(t *testing.T) {
	guard := &fakeGuard{held: true}
	r := NewRunner("test_job", guard, farFuture, func(context.Context, time.Time) error { return nil })

	assert.False(t, r.Start(), "lock held by another process is a normal false, not an error")
	assert.False(t, r.Status().Active)
}

func TestRunnerStopCancelsScheduledWait(t *testing.T) {
	guard := &fakeGuard{}
	r := NewRunner("test_job", guard, farFuture, func(context.Context, time.Time) error { return nil })

	require.True(t, r.Start())

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not cancel the scheduled wait")
	}
}

func TestRunnerRunNow(t *testing.T) {
	var runs atomic.Int32
	guard := &fakeGuard{}
	r := NewRunner("test_job", guard, farFuture, func(context.Context, time.Time) error {
		runs.Add(1)
		return nil
	})

	require.NoError(t, r.RunNow(context.Background()))
	assert.Equal(t, int32(1), runs.Load())

	s := r.Status()
	require.NotNil(t, s.LastRun)
	require.NotNil(t, s.LastResetDate)
	assert.Equal(t, time.Now().Format("2006-01-02"), *s.LastResetDate)
}

func TestRunnerScheduledRunFires(t *testing.T) {
	var runs atomic.Int32
	guard := &fakeGuard{}
	r := NewRunner("test_job", guard,
		func(now time.Time) time.Time { return now.Add(20 * time.Millisecond) },
		func(context.Context, time.Time) error {
			runs.Add(1)
			return nil
		})

	require.True(t, r.Start())
	defer r.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 },
		2*time.Second, 10*time.Millisecond, "loop keeps firing on schedule")
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("05:00")
	require.NoError(t, err)
	assert.Equal(t, 5, h)
	assert.Equal(t, 0, m)

	for _, bad := range []string{"", "5", "24:00", "05:60", "aa:bb"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestNextClockTrigger(t *testing.T) {
	now := time.Date(2025, time.April, 21, 4, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.April, 21, 5, 0, 0, 0, time.UTC), NextClockTrigger(now, 5, 0))

	// At or past the trigger: tomorrow.
	now = time.Date(2025, time.April, 21, 5, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.April, 22, 5, 0, 0, 0, time.UTC), NextClockTrigger(now, 5, 0))
}

func TestNextWeekdayClockTrigger(t *testing.T) {
	// Wednesday 2025-04-23 -> next Monday 04:00 is 2025-04-28.
	now := time.Date(2025, time.April, 23, 10, 0, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2025, time.April, 28, 4, 0, 0, 0, time.UTC),
		NextWeekdayClockTrigger(now, time.Monday, 4, 0))

	// Monday before 04:00 -> today.
	now = time.Date(2025, time.April, 28, 3, 0, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2025, time.April, 28, 4, 0, 0, 0, time.UTC),
		NextWeekdayClockTrigger(now, time.Monday, 4, 0))

	// Monday at exactly 04:00 -> next week.
	now = time.Date(2025, time.April, 28, 4, 0, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2025, time.May, 5, 4, 0, 0, 0, time.UTC),
		NextWeekdayClockTrigger(now, time.Monday, 4, 0))
}

func TestFileGuardExcludesSecondAcquire(t *testing.T) {
	dir := t.TempDir()

	first := NewFileGuard(dir, "test_job")
	ok, err := first.Acquire()
	require.NoError(t, err)
	require.True(t, ok)

	second := NewFileGuard(dir, "test_job")
	ok, err = second.Acquire()
	require.NoError(t, err)
	assert.False(t, ok, "lock already held")

	// Distinct job kinds use distinct lock files.
	other := NewFileGuard(dir, "other_job")
	ok, err = other.Acquire()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, other.Release())

	require.NoError(t, first.Release())
	ok, err = second.Acquire()
	require.NoError(t, err)
	assert.True(t, ok, "acquirable again after release")
	require.NoError(t, second.Release())

	assert.FileExists(t, filepath.Join(dir, "productiva_test_job.lock"))
}
