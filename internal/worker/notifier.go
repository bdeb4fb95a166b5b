package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/jamdungjobs/reminder-dispatcher/internal/model"
	"github.com/jamdungjobs/reminder-dispatcher/internal/rabbitmq/queue"
	notifrepo "github.com/jamdungjobs/reminder-dispatcher/internal/repository/notification"
)

//go:generate mockgen -source=notifier.go -destination=../mocks/worker/notifier_mock.go -package=mocks

type notificationConsumer interface {
	Consume(ctx context.Context, out chan<- queue.NotificationMessage, strategy retry.Strategy) error
}

type messageHandler interface {
	HandleMessage(ctx context.Context, msg queue.NotificationMessage, strategy retry.Strategy)
}

type notificationService interface {
	GetNotificationStatusByID(context.Context, retry.Strategy, uuid.UUID) (model.NotificationStatus, error)
}

// Notifier fans delivery messages out to a pool of workers.
type Notifier struct {
	consumer notificationConsumer
	handler  messageHandler
	service  notificationService
}

func NewNotifier(c notificationConsumer, h messageHandler, s notificationService) *Notifier {
	return &Notifier{
		consumer: c,
		handler:  h,
		service:  s,
	}
}

// Run consumes delivery messages with workerCount goroutines until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	var wg sync.WaitGroup
	msgChan := make(chan queue.NotificationMessage, workerCount*10)

	go func() {
		if err := n.consumer.Consume(ctx, msgChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume delivery messages")
		}
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Debug().Int("worker", id).Msg("delivery worker started")

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Debug().Int("worker", id).Msg("delivery worker shutting down")
					return
				case msg, ok := <-msgChan:
					if !ok {
						return
					}

					n.process(ctx, msg, strategy)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Info().Msg("notifier stopped")
}

func (n *Notifier) process(ctx context.Context, msg queue.NotificationMessage, strategy retry.Strategy) {
	status, err := n.service.GetNotificationStatusByID(ctx, strategy, msg.ID)
	if err != nil {
		if errors.Is(err, notifrepo.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("notification_id", msg.ID.String()).Msg("notification not found, dropping delivery")
			return
		}

		zlog.Logger.Error().Err(err).Str("notification_id", msg.ID.String()).Msg("failed to get notification status")
		return
	}

	if status == model.StatusRead {
		zlog.Logger.Debug().Str("notification_id", msg.ID.String()).Msg("notification already read, skipping delivery")
		return
	}

	n.handler.HandleMessage(ctx, msg, strategy)
}
