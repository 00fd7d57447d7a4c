// Package analyticsrecorder собирает воркер, который читает события
// аналитики из RabbitMQ и сохраняет их в базу данных.
package analyticsrecorder

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/startuplense/content-platform/internal/config"
	"github.com/startuplense/content-platform/internal/rabbitmq"
	"github.com/startuplense/content-platform/internal/services/analytics"
	"github.com/startuplense/content-platform/internal/storage"
)

// App — собранный воркер записи аналитики.
type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	recorder *analytics.RecorderService
	db       *storage.Storage
	logger   *slog.Logger
}

// New создает воркер: подключает базу данных и брокер сообщений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.ConnectRetries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetAnalyticsQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	recorder := analytics.NewRecorderService(db, logger)

	return &App{
		conn:     conn,
		ch:       ch,
		recorder: recorder,
		db:       db,
		logger:   logger,
	}, nil
}

// Run запускает потребителя очереди и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.AnalyticsQueue, a.recorder.Handle)
	if err != nil {
		a.logger.Error("failed to start analytics consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("analytics recorder shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	a.db.DB.Close()

	return nil
}
