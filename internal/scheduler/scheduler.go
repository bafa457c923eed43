package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/T-Man-05/diacare-sub000/internal/logger"
	"github.com/T-Man-05/diacare-sub000/internal/services"
)

const resetJobTimeout = 30 * time.Second

// Scheduler runs the background jobs of the service. Currently that is a
// single daily job rolling reminder statuses back to pending shortly after
// midnight.
type Scheduler struct {
	gocron gocron.Scheduler
}

// New builds the scheduler with the daily reminder reset job registered.
func New(reminders *services.ReminderService) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 30))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), resetJobTimeout)
			defer cancel()
			if err := reminders.ResetDailyStatuses(ctx); err != nil {
				logger.Error("Daily reminder reset failed", "error", err)
			}
		}),
		gocron.WithName("reminder-daily-reset"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register daily reset job: %w", err)
	}

	return &Scheduler{gocron: s}, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.gocron.Start()
	logger.Info("Scheduler started")
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	return s.gocron.Shutdown()
}
