// Package contentplatform собирает основное приложение: хранилище, кеш,
// брокер, сервисы и маршруты HTTP API.
package contentplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	trackhandler "github.com/startuplense/content-platform/internal/http/handlers/analytics/track"
	articlecreate "github.com/startuplense/content-platform/internal/http/handlers/article/create"
	articleget "github.com/startuplense/content-platform/internal/http/handlers/article/get"
	articlelist "github.com/startuplense/content-platform/internal/http/handlers/article/list"
	"github.com/startuplense/content-platform/internal/http/handlers/auth/login"
	"github.com/startuplense/content-platform/internal/http/handlers/auth/register"
	"github.com/startuplense/content-platform/internal/http/handlers/health"
	"github.com/startuplense/content-platform/internal/http/handlers/payment/ordercreate"
	"github.com/startuplense/content-platform/internal/http/handlers/payment/verify"
	"github.com/startuplense/content-platform/internal/http/handlers/subscription/grant"
	"github.com/startuplense/content-platform/internal/http/handlers/subscription/plans"
	"github.com/startuplense/content-platform/internal/http/handlers/subscription/status"
	"github.com/startuplense/content-platform/internal/http/middlewarectx"
	"github.com/startuplense/content-platform/internal/services/analytics"
	authservice "github.com/startuplense/content-platform/internal/services/auth"
	"github.com/startuplense/content-platform/internal/services/catalog"
	"github.com/startuplense/content-platform/internal/services/entitlement"
	"github.com/startuplense/content-platform/internal/services/lifecycle"
	paymentservice "github.com/startuplense/content-platform/internal/services/payment"
	"github.com/startuplense/content-platform/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *storage.Storage,
	authService *authservice.Service, catalogService *catalog.Service,
	lifecycleManager *lifecycle.Manager, engine *entitlement.Engine,
	paymentService *paymentservice.Service, tracker *analytics.Tracker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/plans", plans.New(logger, catalogService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Чтение контента и аналитика открыты анонимам,
		// но учитывают токен, если он предъявлен
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/articles", articlelist.New(logger, db).ServeHTTP)
			r.Get("/articles/{slug}", articleget.New(logger, db, engine).ServeHTTP)
			r.Post("/analytics/track", trackhandler.New(logger, tracker).ServeHTTP)
		})

		// Группа с обязательной JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/articles", articlecreate.New(logger, db).ServeHTTP)
			r.Get("/subscriptions/status", status.New(logger, lifecycleManager).ServeHTTP)
			r.Post("/subscriptions", grant.New(logger, lifecycleManager).ServeHTTP)
			r.Post("/payments/order", ordercreate.New(logger, paymentService).ServeHTTP)
			r.Post("/payments/verify", verify.New(logger, paymentService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
