package worker

import (
	"context"
	"errors"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/jamdungjobs/reminder-dispatcher/internal/service/reminder"
)

//go:generate mockgen -source=scheduler.go -destination=../mocks/worker/scheduler_mock.go -package=mocks

type dispatcher interface {
	Run(ctx context.Context) (reminder.RunStats, error)
}

// Scheduler triggers the reminder dispatcher on a fixed interval.
type Scheduler struct {
	dispatcher dispatcher
	interval   time.Duration
}

func NewScheduler(d dispatcher, interval time.Duration) *Scheduler {
	return &Scheduler{
		dispatcher: d,
		interval:   interval,
	}
}

// Start runs the dispatcher immediately and then on every tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	zlog.Logger.Info().Dur("interval", s.interval).Msg("reminder scheduler started")

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	_, err := s.dispatcher.Run(ctx)

	switch {
	case err == nil:
	case errors.Is(err, reminder.ErrRunInProgress):
		zlog.Logger.Debug().Msg("previous reminder run still active, skipping tick")
	case errors.Is(err, context.Canceled):
	default:
		// The dispatcher already logged the cause; unprocessed rows are retried next tick.
		zlog.Logger.Warn().Err(err).Msg("reminder run failed")
	}
}
