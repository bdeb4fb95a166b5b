package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/jamdungjobs/reminder-dispatcher/internal/model"
	"github.com/jamdungjobs/reminder-dispatcher/internal/rabbitmq/queue"
	reminderrepo "github.com/jamdungjobs/reminder-dispatcher/internal/repository/reminder"
)

//go:generate mockgen -source=dispatcher.go -destination=../../mocks/service/reminder/mock.go -package=mocks

type reminderRepository interface {
	FindDue(ctx context.Context, now time.Time, after reminderrepo.Cursor, limit int) ([]model.ScheduledReminder, error)
	Materialize(ctx context.Context, n model.Notification) (uuid.UUID, error)
}

type deliveryPublisher interface {
	Publish(msg queue.NotificationMessage, strategy retry.Strategy) error
}

type runLock interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// ErrRunInProgress is returned when another run holds the dispatcher, locally or on another replica.
var ErrRunInProgress = errors.New("reminder dispatch already in progress")

// DefaultBatchSize is the page size used when none is configured.
const DefaultBatchSize = 100

// RunStats summarises a single dispatcher run.
type RunStats struct {
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Due        int           `json:"due"`        // due reminders seen
	Dispatched int           `json:"dispatched"` // notifications created
	Skipped    int           `json:"skipped"`    // reminders consumed concurrently by someone else
	Failed     int           `json:"failed"`     // reminders left unprocessed for the next run
	Published  int           `json:"published"`  // delivery messages queued
	Error      string        `json:"error,omitempty"`
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPublisher enables external delivery of reminders whose content names a channel and address.
func WithPublisher(p deliveryPublisher, strategy retry.Strategy) Option {
	return func(d *Dispatcher) {
		d.publisher = p
		d.strategy = strategy
	}
}

// WithLock guards runs with a lock shared between replicas.
func WithLock(l runLock) Option {
	return func(d *Dispatcher) {
		d.lock = l
	}
}

// WithClock overrides the time source used to decide which reminders are due.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// Dispatcher converts due, unprocessed reminders into notifications.
type Dispatcher struct {
	repo      reminderRepository
	publisher deliveryPublisher
	strategy  retry.Strategy
	lock      runLock
	batchSize int
	now       func() time.Time

	running atomic.Bool

	mu   sync.RWMutex
	last *RunStats
}

// NewDispatcher creates a dispatcher reading due reminders in pages of batchSize.
func NewDispatcher(repo reminderRepository, batchSize int, opts ...Option) *Dispatcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	d := &Dispatcher{
		repo:      repo,
		batchSize: batchSize,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run performs one dispatch pass over every reminder due at the time of the call.
//
// A failing reminder does not stop the pass; it stays unprocessed and is retried
// by the next run. Only a failing due-query aborts the pass.
func (d *Dispatcher) Run(ctx context.Context) (RunStats, error) {
	if !d.running.CompareAndSwap(false, true) {
		return RunStats{}, ErrRunInProgress
	}
	defer d.running.Store(false)

	if d.lock != nil {
		ok, err := d.lock.TryLock(ctx)
		if err != nil {
			return RunStats{}, fmt.Errorf("acquire run lock: %w", err)
		}

		if !ok {
			return RunStats{}, ErrRunInProgress
		}

		defer func() {
			if err := d.lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to release dispatcher lock")
			}
		}()
	}

	began := time.Now()
	stats := RunStats{StartedAt: d.now()}

	err := d.dispatchDue(ctx, stats.StartedAt, &stats)

	stats.Duration = time.Since(began)
	if err != nil {
		stats.Error = err.Error()
	}
	d.remember(stats)

	if err != nil {
		zlog.Logger.Error().Err(err).
			Int("dispatched", stats.Dispatched).
			Int("failed", stats.Failed).
			Msg("reminder dispatch aborted")

		return stats, err
	}

	if stats.Due > 0 {
		zlog.Logger.Info().
			Int("due", stats.Due).
			Int("dispatched", stats.Dispatched).
			Int("skipped", stats.Skipped).
			Int("failed", stats.Failed).
			Int("published", stats.Published).
			Dur("duration", stats.Duration).
			Msg("processed due reminders")
	}

	return stats, nil
}

// LastRun returns the statistics of the most recent completed run.
func (d *Dispatcher) LastRun() (RunStats, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.last == nil {
		return RunStats{}, false
	}

	return *d.last, true
}

func (d *Dispatcher) remember(stats RunStats) {
	d.mu.Lock()
	d.last = &stats
	d.mu.Unlock()
}

func (d *Dispatcher) dispatchDue(ctx context.Context, now time.Time, stats *RunStats) error {
	var cursor reminderrepo.Cursor

	for {
		batch, err := d.repo.FindDue(ctx, now, cursor, d.batchSize)
		if err != nil {
			return fmt.Errorf("find due reminders: %w", err)
		}

		for _, rem := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}

			stats.Due++
			d.dispatchOne(ctx, rem, stats)
		}

		if len(batch) < d.batchSize {
			return nil
		}

		cursor = reminderrepo.After(batch[len(batch)-1])
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, rem model.ScheduledReminder, stats *RunStats) {
	n := BuildNotification(rem)
	if n.Message == DefaultMessage {
		zlog.Logger.Debug().Str("reminder_id", rem.ID.String()).Msg("reminder has no message, using default")
	}

	id, err := d.repo.Materialize(ctx, n)
	switch {
	case errors.Is(err, reminderrepo.ErrAlreadyProcessed):
		stats.Skipped++
		zlog.Logger.Debug().Str("reminder_id", rem.ID.String()).Msg("reminder already processed, skipping")
		return
	case err != nil:
		stats.Failed++
		zlog.Logger.Error().Err(err).
			Str("reminder_id", rem.ID.String()).
			Str("user_id", rem.UserID).
			Msg("failed to dispatch reminder")
		return
	}

	stats.Dispatched++

	if d.publisher == nil {
		return
	}

	channel, to, ok := deliveryTarget(rem.Content)
	if !ok {
		return
	}

	msg := queue.NotificationMessage{
		ID:          id,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Message:     n.Message,
		Channel:     channel,
		To:          to,
	}

	if err := d.publisher.Publish(msg, d.strategy); err != nil {
		zlog.Logger.Error().Err(err).
			Str("notification_id", id.String()).
			Str("channel", channel).
			Msg("failed to publish notification for delivery")
		return
	}

	stats.Published++
}
