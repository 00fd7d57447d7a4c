// Package catalog содержит бизнес-логику справочных данных:
// тарифных планов и лимитов чтения. Оба справочника кешируются в Redis.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/startuplense/content-platform/internal/models"
)

const cacheTTL = time.Hour

// PlanRepository описывает контракт для чтения тарифных планов из базы данных.
type PlanRepository interface {
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
	GetPlan(ctx context.Context, planUID string) (*models.Plan, error)
}

// LimitRepository описывает контракт для чтения лимитов по ролям.
type LimitRepository interface {
	GetReadingLimit(ctx context.Context, role string) (*models.ReadingLimit, error)
}

// Cache — абстракция над Redis-кешем.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service отдаёт справочные данные, по возможности из кеша.
type Service struct {
	plans  PlanRepository
	limits LimitRepository
	cache  Cache
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(plans PlanRepository, limits LimitRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		plans:  plans,
		limits: limits,
		cache:  cache,
		log:    log,
	}
}

// ListPlans возвращает все активные тарифные планы.
func (s *Service) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "services.catalog.ListPlans"

	var result []*models.Plan
	const cacheKey = "plans:active"
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read plans from cache", slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.plans.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache plans", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// GetPlan возвращает тарифный план по идентификатору.
func (s *Service) GetPlan(ctx context.Context, planUID string) (*models.Plan, error) {
	const op = "services.catalog.GetPlan"

	var result *models.Plan
	cacheKey := fmt.Sprintf("plan:%s", planUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read plan from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.plans.GetPlan(ctx, planUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// GetReadingLimit возвращает лимиты чтения для роли. Ошибка чтения из базы
// отдаётся как есть: отсутствие настроенного лимита должно закрывать доступ,
// а не открывать его.
func (s *Service) GetReadingLimit(ctx context.Context, role string) (*models.ReadingLimit, error) {
	const op = "services.catalog.GetReadingLimit"

	var result *models.ReadingLimit
	cacheKey := fmt.Sprintf("readinglimit:%s", role)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read limit from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.limits.GetReadingLimit(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache limit", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}
