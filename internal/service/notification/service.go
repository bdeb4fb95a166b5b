package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/jamdungjobs/reminder-dispatcher/internal/model"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/notification/mock.go -package=mocks

type notificationRepository interface {
	GetNotificationStatusByID(context.Context, uuid.UUID) (model.NotificationStatus, error)
}

// Notifier delivers a message to an address on one external channel.
type Notifier interface {
	Send(to, subject, msg string) error
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

type Option func(*Service)

// WithCache enables the status cache.
func WithCache(c cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

type Service struct {
	repo      notificationRepository
	notifiers map[string]Notifier
	cache     cache
}

func NewService(repo notificationRepository, notifiers map[string]Notifier, opts ...Option) *Service {
	s := &Service{repo: repo, notifiers: notifiers}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func statusKey(id uuid.UUID) string {
	return "notification:status:" + id.String()
}

// GetNotificationStatusByID returns the read status of a notification.
//
// Only READ is cached: it is terminal, so the entry never goes stale.
func (s *Service) GetNotificationStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (model.NotificationStatus, error) {
	if s.cache != nil {
		cached, err := s.cache.GetWithRetry(ctx, strategy, statusKey(id))
		switch {
		case err == nil && cached != "":
			return model.NotificationStatus(cached), nil
		case err != nil && !errors.Is(err, redis.Nil):
			zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification status from cache")
		}
	}

	status, err := s.repo.GetNotificationStatusByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get notification status: %w", err)
	}

	if s.cache != nil && status == model.StatusRead {
		if err := s.cache.SetWithRetry(ctx, strategy, statusKey(id), string(status)); err != nil {
			zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache notification status")
		}
	}

	return status, nil
}

// Send delivers message through the notifier registered for channel.
func (s *Service) Send(to, subject, message, channel string) error {
	notifier, ok := s.notifiers[channel]
	if !ok {
		return fmt.Errorf("unknown channel %s", channel)
	}

	if err := notifier.Send(to, subject, message); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	return nil
}
