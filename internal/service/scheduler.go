package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prompt_badges/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// sweepTimeout bounds a single scheduled run.
const sweepTimeout = 2 * time.Hour

// SweepScheduler runs the time based sweep once a day.
type SweepScheduler struct {
	sched gocron.Scheduler
	sweep *SweepService
}

// NewSweepScheduler registers a daily job at hour:minute local time. A run
// that overlaps the previous one is skipped, not queued.
func NewSweepScheduler(sweep *SweepService, hour, minute uint) (*SweepScheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &SweepScheduler{sched: sched, sweep: sweep}
	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(s.run),
		gocron.WithName("time-based-badge-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}
	return s, nil
}

func (s *SweepScheduler) Start() {
	s.sched.Start()
	logger.Info("sweep scheduler started")
}

func (s *SweepScheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *SweepScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	sum, err := s.sweep.RunTimeBasedSweep(ctx)
	switch {
	case errors.Is(err, ErrSweepRunning):
		logger.Warn("scheduled sweep skipped, another run is active")
	case err != nil:
		logger.Error("scheduled sweep failed", "run_id", sum.RunID, "users", sum.UsersScanned, "error", err)
	}
}
