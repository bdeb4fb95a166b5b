package notification

import (
	"context"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/jamdungjobs/reminder-dispatcher/internal/rabbitmq/queue"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/notification/mock.go -package=mocks
type notificationService interface {
	Send(to, subject, message, channel string) error
}

type redeliverer interface {
	Retry(msg queue.NotificationMessage, strategy retry.Strategy) error
	DeadLetter(msg queue.NotificationMessage, strategy retry.Strategy) error
}

type Handler struct {
	service notificationService
	queue   redeliverer
}

func NewHandler(svc notificationService, q redeliverer) *Handler {
	return &Handler{
		service: svc,
		queue:   q,
	}
}

// HandleMessage delivers one notification, retrying according to strategy.
//
// When every attempt fails the message goes to the retry queue, up to
// queue.MaxRedeliveries times, and then to the DLQ.
func (h *Handler) HandleMessage(ctx context.Context, msg queue.NotificationMessage, strategy retry.Strategy) {
	zlog.Logger.Debug().
		Str("notification_id", msg.ID.String()).
		Str("channel", msg.Channel).
		Msg("delivering notification")

	err := retry.Do(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return h.service.Send(msg.To, msg.Title, msg.Message, msg.Channel)
		}
	}, strategy)

	if err != nil {
		h.redeliver(ctx, msg, strategy, err)
		return
	}

	zlog.Logger.Info().
		Str("notification_id", msg.ID.String()).
		Str("channel", msg.Channel).
		Msg("notification delivered")
}

func (h *Handler) redeliver(ctx context.Context, msg queue.NotificationMessage, strategy retry.Strategy, cause error) {
	log := zlog.Logger.With().
		Str("notification_id", msg.ID.String()).
		Str("channel", msg.Channel).
		Int("attempt", msg.Attempt).
		Logger()

	// Interrupted by shutdown: the attempt does not count.
	if ctx.Err() != nil {
		if err := h.queue.Retry(msg, strategy); err != nil {
			log.Error().Err(err).Msg("failed to requeue interrupted delivery")
		}
		return
	}

	if msg.Attempt >= queue.MaxRedeliveries {
		log.Error().Err(cause).Msg("notification delivery failed, moving to DLQ")

		if err := h.queue.DeadLetter(msg, strategy); err != nil {
			log.Error().Err(err).Msg("failed to dead-letter delivery")
		}
		return
	}

	msg.Attempt++
	log.Warn().Err(cause).Msg("notification delivery failed, scheduling retry")

	if err := h.queue.Retry(msg, strategy); err != nil {
		log.Error().Err(err).Msg("failed to schedule delivery retry")
	}
}
