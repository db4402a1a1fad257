// internal/scheduler/scheduler.go
//
// Process-local daily selection scheduler.
//
// Thin wrapper around robfig/cron: while running, a single cron entry fires
// once per calendar day at a fixed UTC wall-clock time and invokes the
// selection runner for both game modes. Guards:
//   - an in-process "already executed today" date flag;
//   - a double-check against the usage ledger (covers process restarts
//     after the fire time has passed).
//
// Start() also performs the same check immediately, for processes that come
// up after today's fire time. A failed run still marks the day as executed:
// no same-day retry happens until the next scheduled fire, which avoids a
// tight retry loop against an unavailable backing store. Manual selection
// endpoints remain the recovery path.
//
// One Scheduler instance is created by main and handed to whoever needs it;
// Start on a running instance is a no-op, Stop cancels future fires and
// clears the day flag. An in-flight run is not interrupted by Stop.

package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/bannerdle/go-server/internal/ledger"
)

const runTimeout = 10 * time.Second

// Runner executes the daily selection for both game modes.
type Runner interface {
	RunDaily(ctx context.Context) error
}

// HasDayFunc reports whether the ledger already holds selections for the
// given YYYY-MM-DD date key.
type HasDayFunc func(ctx context.Context, day string) (bool, error)

// Scheduler owns the cron timer and the in-process execution flag.
type Scheduler struct {
	runner Runner
	hasDay HasDayFunc
	fireAt string // "HH:MM", UTC
	now    func() time.Time

	mu         sync.Mutex
	cron       *cron.Cron
	lastRunDay string
}

func New(runner Runner, hasDay HasDayFunc, fireAt string) *Scheduler {
	return &Scheduler{runner: runner, hasDay: hasDay, fireAt: fireAt, now: time.Now}
}

// WithClock overrides the scheduler clock. Test hook.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Start schedules the daily fire and performs the catch-up check once.
// Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return nil
	}
	spec, err := cronSpec(s.fireAt)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, s.runIfDue); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	s.cron = c
	c.Start()
	s.mu.Unlock()

	log.Info().Str("fireAt", s.fireAt+" UTC").Msg("scheduler started")

	// Covers a process started after today's fire time already passed.
	s.runIfDue()
	return nil
}

// Stop cancels future fires and clears the in-process day flag.
// A no-op when not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.lastRunDay = ""
	log.Info().Msg("scheduler stopped")
}

// Status is a snapshot of the scheduler state.
type Status struct {
	Running    bool   `json:"running"`
	FireAt     string `json:"fireAt"` // "HH:MM" UTC
	LastRunDay string `json:"lastRunDay,omitempty"`
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Running: s.cron != nil, FireAt: s.fireAt, LastRunDay: s.lastRunDay}
}

// runIfDue is the guarded selection entry point, called by the cron fire
// and by the Start catch-up check.
func (s *Scheduler) runIfDue() {
	day := ledger.DateKey(s.now())

	s.mu.Lock()
	if s.lastRunDay == day {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if done, err := s.hasDay(ctx, day); err == nil && done {
		log.Debug().Str("day", day).Msg("selection already recorded, skipping")
		s.markRan(day)
		return
	} else if err != nil {
		log.Warn().Err(err).Str("day", day).Msg("ledger check failed, attempting run")
	}

	if err := s.runner.RunDaily(ctx); err != nil {
		// Logged but still marked done for today; the next attempt is
		// tomorrow's fire or a manual selection endpoint.
		log.Error().Err(err).Str("day", day).Msg("daily selection failed")
	}
	s.markRan(day)
}

func (s *Scheduler) markRan(day string) {
	s.mu.Lock()
	s.lastRunDay = day
	s.mu.Unlock()
}

// cronSpec converts "HH:MM" to a standard daily cron expression.
func cronSpec(fireAt string) (string, error) {
	parts := strings.SplitN(fireAt, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("schedule time %q: want HH:MM", fireAt)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("schedule time %q: bad hour", fireAt)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("schedule time %q: bad minute", fireAt)
	}
	return fmt.Sprintf("%d %d * * *", m, h), nil
}
