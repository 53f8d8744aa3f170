// internal/matches/scheduler.go

package matches

import (
	"context"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
)

// Scheduler runs the expiry sweep in the background
type Scheduler struct {
	service  Service
	interval time.Duration
	log      *logger.Logger
}

func NewScheduler(service Service, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{service: service, interval: interval, log: log}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.runEvery(ctx, s.interval, s.sweep)
}

func (s *Scheduler) sweep(ctx context.Context) error {
	_, err := s.service.ExpireSweep(ctx, time.Now())
	return err
}

// runEvery runs task once immediately and then on every tick until ctx ends
func (s *Scheduler) runEvery(ctx context.Context, interval time.Duration, task func(context.Context) error) {
	if err := task(ctx); err != nil {
		s.log.Error("scheduled task failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task(ctx); err != nil {
				s.log.Error("scheduled task failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
