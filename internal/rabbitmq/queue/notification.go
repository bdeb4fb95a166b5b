package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

const (
	ExchangeName   = "reminder-exchange"
	MainQueueName  = "reminder-delivery"
	RetryQueueName = "reminder-delivery-retry"
	DLQName        = "reminder-delivery-dlq"
	RoutingKey     = "reminder.delivery"

	// MaxRedeliveries is how many times a failed delivery goes through the
	// retry queue before it is parked in the DLQ.
	MaxRedeliveries = 3

	retryTTLMillis = 5000
)

// NotificationMessage asks the delivery workers to push a stored notification
// to an external channel.
type NotificationMessage struct {
	ID          uuid.UUID `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Channel     string    `json:"channel"`
	To          string    `json:"to"`
	Attempt     int       `json:"attempt,omitempty"` // redeliveries so far
}

type NotificationQueue struct {
	Publisher *rabbitmq.Publisher
	Consumer  *rabbitmq.Consumer

	// direct publishes through the default exchange, keyed by queue name.
	direct *rabbitmq.Publisher
}

// NewNotificationQueue declares the exchange, the main queue, a retry queue that
// dead-letters back into the main queue after a delay, and a DLQ.
//
// Failed deliveries reach the retry queue and the DLQ through Retry and DeadLetter.
func NewNotificationQueue(ch *rabbitmq.Channel) (*NotificationQueue, error) {
	exchange := rabbitmq.NewExchange(ExchangeName, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	_, err := qm.DeclareQueue(DLQName, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	_, err = qm.DeclareQueue(RetryQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args: map[string]interface{}{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": MainQueueName,
			"x-message-ttl":             int32(retryTTLMillis),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	mainQ, err := qm.DeclareQueue(MainQueueName, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())
	cons := rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(mainQ.Name))

	return &NotificationQueue{
		Publisher: pub,
		Consumer:  cons,
		direct:    rabbitmq.NewPublisher(ch, ""),
	}, nil
}

// Publish sends msg to the delivery exchange.
func (q *NotificationQueue) Publish(msg NotificationMessage, strategy retry.Strategy) error {
	return q.publish(q.Publisher, msg, RoutingKey, strategy)
}

// Retry parks msg in the retry queue; it returns to the main queue after the retry TTL.
func (q *NotificationQueue) Retry(msg NotificationMessage, strategy retry.Strategy) error {
	return q.publish(q.direct, msg, RetryQueueName, strategy)
}

// DeadLetter moves msg to the DLQ for manual inspection.
func (q *NotificationQueue) DeadLetter(msg NotificationMessage, strategy retry.Strategy) error {
	return q.publish(q.direct, msg, DLQName, strategy)
}

func (q *NotificationQueue) publish(p *rabbitmq.Publisher, msg NotificationMessage, key string, strategy retry.Strategy) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return p.PublishWithRetry(body, key, "application/json", strategy)
}

// Consume decodes delivery messages into out until ctx is cancelled.
// Undecodable bodies are logged and dropped.
func (q *NotificationQueue) Consume(ctx context.Context, out chan<- NotificationMessage, strategy retry.Strategy) error {
	msgChan := make(chan []byte)

	go forward(ctx, msgChan, out)

	return q.Consumer.ConsumeWithRetry(msgChan, strategy)
}

func forward(ctx context.Context, in <-chan []byte, out chan<- NotificationMessage) {
	for {
		var body []byte

		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			body = m
		}

		var msg NotificationMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to unmarshal delivery message")
			continue
		}

		select {
		case <-ctx.Done():
			return
		case out <- msg:
		}
	}
}
