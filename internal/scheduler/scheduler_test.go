package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls int
	err   error
}

func (f *fakeRunner) RunDaily(ctx context.Context) error {
	f.calls++
	return f.err
}

func notDone(ctx context.Context, day string) (bool, error) { return false, nil }
func done(ctx context.Context, day string) (bool, error)    { return true, nil }

func clockAt(day string) func() time.Time {
	t, _ := time.Parse("2006-01-02", day)
	return func() time.Time { return t }
}

func TestRunIfDueRunsOncePerDay(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, notDone, "15:50").WithClock(clockAt("2026-08-31"))

	s.runIfDue()
	s.runIfDue()
	s.runIfDue()
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, "2026-08-31", s.Status().LastRunDay)
}

func TestRunIfDueRunsAgainNextDay(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, notDone, "15:50").WithClock(clockAt("2026-08-31"))
	s.runIfDue()

	s.WithClock(clockAt("2026-09-01"))
	s.runIfDue()
	assert.Equal(t, 2, r.calls)
}

func TestRunIfDueSkipsWhenLedgerHasToday(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, done, "15:50").WithClock(clockAt("2026-08-31"))

	s.runIfDue()
	assert.Equal(t, 0, r.calls)
	// The day is still marked, so the ledger is not re-queried all day.
	assert.Equal(t, "2026-08-31", s.Status().LastRunDay)
}

// A failed run is not retried until the next day: the day flag is set even
// on error, trading a missed day for not hammering a broken backing store.
func TestRunIfDueMarksDayOnFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("store down")}
	s := New(r, notDone, "15:50").WithClock(clockAt("2026-08-31"))

	s.runIfDue()
	s.runIfDue()
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, "2026-08-31", s.Status().LastRunDay)
}

func TestRunIfDueRunsWhenLedgerCheckFails(t *testing.T) {
	r := &fakeRunner{}
	failing := func(ctx context.Context, day string) (bool, error) {
		return false, errors.New("db unavailable")
	}
	s := New(r, failing, "15:50").WithClock(clockAt("2026-08-31"))

	s.runIfDue()
	assert.Equal(t, 1, r.calls)
}

func TestStartPerformsCatchUpCheck(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, notDone, "15:50").WithClock(clockAt("2026-08-31"))
	defer s.Stop()

	require.NoError(t, s.Start())
	assert.Equal(t, 1, r.calls)
	assert.True(t, s.Status().Running)
}

func TestStartIsIdempotent(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, notDone, "15:50").WithClock(clockAt("2026-08-31"))
	defer s.Stop()

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	assert.Equal(t, 1, r.calls)
}

func TestStopClearsStateAndIsIdempotent(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, notDone, "15:50").WithClock(clockAt("2026-08-31"))
	require.NoError(t, s.Start())

	s.Stop()
	s.Stop()
	st := s.Status()
	assert.False(t, st.Running)
	assert.Empty(t, st.LastRunDay)

	// Restart repeats the catch-up check because the day flag was cleared.
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Equal(t, 2, r.calls)
}

func TestStartRejectsBadFireTime(t *testing.T) {
	for _, bad := range []string{"", "15", "25:00", "12:60", "noon"} {
		s := New(&fakeRunner{}, notDone, bad)
		assert.Error(t, s.Start(), "fireAt=%q", bad)
	}
}

func TestCronSpec(t *testing.T) {
	spec, err := cronSpec("15:50")
	require.NoError(t, err)
	assert.Equal(t, "50 15 * * *", spec)

	spec, err = cronSpec("00:05")
	require.NoError(t, err)
	assert.Equal(t, "5 0 * * *", spec)
}
