package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler periodically refreshes the weather cache so dashboard requests
// rarely pay upstream latency.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	refresh   func(ctx context.Context) error
}

// New creates a Scheduler around a refresh function.
func New(interval time.Duration, refresh func(ctx context.Context) error) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		refresh:   refresh,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.refresh(ctx); err != nil {
			log.Printf("scheduler: weather refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
