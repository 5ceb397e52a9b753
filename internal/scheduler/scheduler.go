package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
	"ulascansenturk/weather-loader/internal/service"
)

// Scheduler re-runs the whole city batch on a fixed interval. Runs never overlap.
type Scheduler struct {
	scheduler *gocron.Scheduler
	loader    service.WeatherLoader
	cities    []string
	interval  time.Duration
}

func New(loader service.WeatherLoader, cities []string, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Scheduler{
		scheduler: s,
		loader:    loader,
		cities:    cities,
		interval:  interval,
	}
}

// Start schedules the batch and starts the underlying scheduler. The first run starts
// immediately. ctx is handed to every run, so cancelling it aborts the run in progress.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler: interval must be positive, got %s", s.interval)
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		if ctx.Err() != nil {
			return
		}

		report, err := s.loader.Run(ctx, s.cities)
		if err != nil {
			log.Error().Err(err).Str("run_id", report.RunID.String()).Msg("Scheduled weather load failed")
			return
		}
		if report.Succeeded() == 0 && len(s.cities) > 0 {
			log.Warn().Str("run_id", report.RunID.String()).Msg("Scheduled weather load stored no city")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	log.Info().Dur("interval", s.interval).Int("cities", len(s.cities)).Msg("Scheduler started")
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and waits for a running job to return.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
