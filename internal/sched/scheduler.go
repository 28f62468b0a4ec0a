// Package sched runs a job once per day at a fixed wall-clock time.
package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler triggers a job daily at the configured local time.
type Scheduler struct {
	hour   int
	minute int
	logger zerolog.Logger

	// Now supplies the current time; replaceable in tests.
	Now func() time.Time
}

// New creates a scheduler from an "HH:MM" wall-clock time.
func New(at string, logger zerolog.Logger) (*Scheduler, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule time %q: %w", at, err)
	}
	return &Scheduler{
		hour:   t.Hour(),
		minute: t.Minute(),
		logger: logger,
		Now:    time.Now,
	}, nil
}

// Run invokes job once per day at the scheduled time until ctx is canceled.
// Job errors are logged; they do not stop the schedule.
func (s *Scheduler) Run(ctx context.Context, job func(context.Context) error) error {
	for {
		next := s.nextRun(s.Now())
		s.logger.Info().Time("next_run", next).Msg("waiting for next scheduled scan")

		timer := time.NewTimer(next.Sub(s.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := job(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error().Err(err).Msg("scheduled scan failed")
		}
	}
}

// nextRun returns the next occurrence of the scheduled wall-clock time
// strictly after now.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
