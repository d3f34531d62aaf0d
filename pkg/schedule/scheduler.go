package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs a batch function on a schedule until its context ends.
// Runs never overlap: the next instant is computed after the previous run
// returns, so a batch that outlasts its interval simply delays the next one.
type Scheduler struct {
	schedule Schedule
	run      func(context.Context) error
	logger   *slog.Logger
}

// NewScheduler creates a scheduler executing run at each instant produced by s.
func NewScheduler(s Schedule, run func(context.Context) error) *Scheduler {
	return &Scheduler{
		schedule: s,
		run:      run,
		logger:   slog.Default(),
	}
}

// Run blocks, executing the batch function at each scheduled instant, until
// ctx is cancelled. A failed run is logged and does not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.run(ctx); err != nil {
			s.logger.Error("scheduled batch failed", "error", err)
		}
	}
}
