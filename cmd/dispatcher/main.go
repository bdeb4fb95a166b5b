package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	wbfredis "github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/jamdungjobs/reminder-dispatcher/internal/api/handlers/dispatcher"
	"github.com/jamdungjobs/reminder-dispatcher/internal/api/handlers/health"
	"github.com/jamdungjobs/reminder-dispatcher/internal/api/router"
	"github.com/jamdungjobs/reminder-dispatcher/internal/api/server"
	"github.com/jamdungjobs/reminder-dispatcher/internal/config"
	"github.com/jamdungjobs/reminder-dispatcher/internal/lock"
	notifmsg "github.com/jamdungjobs/reminder-dispatcher/internal/rabbitmq/handlers/notification"
	"github.com/jamdungjobs/reminder-dispatcher/internal/rabbitmq/queue"
	"github.com/jamdungjobs/reminder-dispatcher/internal/repository"
	notifrepo "github.com/jamdungjobs/reminder-dispatcher/internal/repository/notification"
	reminderrepo "github.com/jamdungjobs/reminder-dispatcher/internal/repository/reminder"
	notifsvc "github.com/jamdungjobs/reminder-dispatcher/internal/service/notification"
	"github.com/jamdungjobs/reminder-dispatcher/internal/service/reminder"
	"github.com/jamdungjobs/reminder-dispatcher/internal/worker"
	"github.com/jamdungjobs/reminder-dispatcher/pkg/email"
	"github.com/jamdungjobs/reminder-dispatcher/pkg/telegram"
)

const lockKey = "reminder-dispatcher:run"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Str("level", cfg.Log.Level).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := repository.Migrate(ctx, db); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	var dispatcherOpts []reminder.Option

	var rdb *wbfredis.Client
	if cfg.Redis.Enabled {
		rdb = wbfredis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)

		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
		}

		dispatcherOpts = append(dispatcherOpts, reminder.WithLock(lock.NewRedisLock(rdb, lockKey, cfg.Dispatcher.LockTTL)))
	}

	var (
		conn *rabbitmq.Connection
		ch   *rabbitmq.Channel
		wg   sync.WaitGroup
	)

	if cfg.RabbitMQ.Enabled {
		conn, err = rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}

		ch, err = conn.Channel()
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
		}

		q, err := queue.NewNotificationQueue(ch)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to create notification queue")
		}

		dispatcherOpts = append(dispatcherOpts, reminder.WithPublisher(q, cfg.Retry))

		notifiers := make(map[string]notifsvc.Notifier)
		if cfg.Email.Enabled {
			notifiers["email"] = email.NewClient(
				cfg.Email.SMTPHost,
				cfg.Email.SMTPPort,
				cfg.Email.Username,
				cfg.Email.Password,
				cfg.Email.From,
			)
		}
		if cfg.Telegram.Enabled {
			notifiers["telegram"] = telegram.NewClient(cfg.Telegram.Token)
		}

		var svcOpts []notifsvc.Option
		if rdb != nil {
			svcOpts = append(svcOpts, notifsvc.WithCache(rdb))
		}

		service := notifsvc.NewService(notifrepo.NewRepository(db), notifiers, svcOpts...)
		notifier := worker.NewNotifier(q, notifmsg.NewHandler(service, q), service)

		wg.Add(1)
		go func() {
			defer wg.Done()
			notifier.Run(ctx, cfg.Retry, cfg.Workers.Count)
		}()
	}

	d := reminder.NewDispatcher(reminderrepo.NewRepository(db), cfg.Dispatcher.BatchSize, dispatcherOpts...)

	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.NewScheduler(d, cfg.Dispatcher.Interval).Start(ctx)
	}()

	r := router.New(dispatcher.NewHandler(d), health.NewHandler(db.Master))
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("reminder dispatcher started")

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// Workers may still requeue interrupted deliveries, so the channel outlives them.
	wg.Wait()

	if ch != nil {
		if err := ch.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
		}
	}

	if conn != nil {
		if err := conn.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
		}
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close redis client")
		}
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close master DB")
	}

	for i, s := range db.Slaves {
		if err := s.Close(); err != nil {
			zlog.Logger.Error().Err(err).Int("slave", i).Msg("failed to close slave DB")
		}
	}
}
