package contentplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/startuplense/content-platform/internal/cache"
	"github.com/startuplense/content-platform/internal/config"
	"github.com/startuplense/content-platform/internal/lib/jwt"
	"github.com/startuplense/content-platform/internal/migrations"
	"github.com/startuplense/content-platform/internal/paymentgateway"
	"github.com/startuplense/content-platform/internal/rabbitmq"
	"github.com/startuplense/content-platform/internal/services/analytics"
	authservice "github.com/startuplense/content-platform/internal/services/auth"
	"github.com/startuplense/content-platform/internal/services/catalog"
	"github.com/startuplense/content-platform/internal/services/entitlement"
	"github.com/startuplense/content-platform/internal/services/lifecycle"
	paymentservice "github.com/startuplense/content-platform/internal/services/payment"
	"github.com/startuplense/content-platform/internal/storage"
)

// App — собранное HTTP-приложение контент-платформы.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает Postgres, Redis и RabbitMQ,
// прогоняет миграции и связывает сервисы с маршрутами.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
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

	sink := analytics.NewSink(analytics.NewChannelPublisher(ch), logger)
	tracker := analytics.NewTracker(sink, logger)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewService(db, jwtMaker)

	catalogService := catalog.NewService(db, db, cacheRedis, logger)
	lifecycleManager := lifecycle.NewManager(db, db, catalogService, cacheRedis, logger)
	engine := entitlement.NewEngine(lifecycleManager, catalogService, db, db, sink, logger)

	gateway := paymentgateway.NewClient(cfg.KeyID, cfg.KeySecret, cfg.APIURL)
	paymentService := paymentservice.NewService(db, catalogService, gateway,
		lifecycleManager, sink, cfg.Currency, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, catalogService,
		lifecycleManager, engine, paymentService, tracker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста
// или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		a.db.DB.Close()
		return err
	}
}
