// Package lifecycle содержит бизнес-логику жизненного цикла подписок:
// активацию новой подписки и ленивую сверку статуса при обращении пользователя.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/startuplense/content-platform/internal/lib/sl"
	"github.com/startuplense/content-platform/internal/models"
)

// LifetimeEndDate — дата окончания для пожизненных подписок.
var LifetimeEndDate = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

// subscriptionCacheTTL — время жизни активной подписки в кеше. Срок действия
// подписки проверяется по EndDate при каждом обращении, поэтому устаревание
// кеша не продлевает доступ; инвалидация при активации покрывает смену плана.
const subscriptionCacheTTL = 15 * time.Minute

// SubscriptionRepository описывает контракт для работы с подписками в базе данных.
type SubscriptionRepository interface {
	// GetActiveSubscription возвращает активную подписку пользователя или nil, если её нет.
	GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error)

	// ActivateSubscription деактивирует старые подписки, создаёт новую и назначает роль "paid".
	ActivateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
}

// UserRepository описывает контракт для обновления роли пользователя.
type UserRepository interface {
	UpdateUserRole(ctx context.Context, userUID, role string) error
}

// PlanProvider возвращает тарифный план по идентификатору.
type PlanProvider interface {
	GetPlan(ctx context.Context, planUID string) (*models.Plan, error)
}

// Cache — абстракция над Redis-кешем.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Status описывает результат сверки подписки пользователя.
type Status struct {
	HasActiveSubscription bool                 `json:"has_active_subscription"`
	Subscription          *models.Subscription `json:"subscription,omitempty"`
}

// Manager управляет активацией и сверкой подписок.
type Manager struct {
	subs  SubscriptionRepository
	users UserRepository
	plans PlanProvider
	cache Cache
	log   *slog.Logger
}

// NewManager создает новый экземпляр Manager.
func NewManager(subs SubscriptionRepository, users UserRepository, plans PlanProvider, cache Cache, log *slog.Logger) *Manager {
	return &Manager{
		subs:  subs,
		users: users,
		plans: plans,
		cache: cache,
		log:   log,
	}
}

func subscriptionCacheKey(userUID string) string {
	return "subscription:active:" + userUID
}

// Activate оформляет пользователю подписку на план: деактивирует предыдущие,
// создаёт новую запись и повышает роль до "paid". Дата окончания считается
// от текущего момента; для пожизненных планов ставится LifetimeEndDate.
func (m *Manager) Activate(ctx context.Context, userUID, planUID string, paymentID *string) (*models.Subscription, error) {
	const op = "services.lifecycle.Activate"

	plan, err := m.plans.GetPlan(ctx, planUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	startDate := time.Now().UTC()
	endDate := LifetimeEndDate
	if !plan.IsLifetime {
		if plan.DurationInDays <= 0 {
			m.log.Warn("plan has no duration, activating as expired",
				slog.String("plan_uid", planUID))
		}
		endDate = startDate.AddDate(0, 0, plan.DurationInDays)
	}

	sub, err := m.subs.ActivateSubscription(ctx, models.Subscription{
		UserUID:   userUID,
		PlanUID:   planUID,
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  true,
		PaymentID: paymentID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.cache.Invalidate(subscriptionCacheKey(userUID)); err != nil {
		m.log.Warn("failed to invalidate subscription cache", sl.Err(err),
			slog.String("user_uid", userUID))
	}

	m.log.Info("subscription activated",
		slog.String("user_uid", userUID),
		slog.String("plan_uid", planUID),
		slog.Time("end_date", endDate))

	return sub, nil
}

// Reconcile сверяет фактический статус подписки пользователя с его ролью.
// Если роль "paid", а действующей подписки нет, пользователь понижается до "free".
// Повторный вызов для уже понижённого пользователя ничего не меняет.
func (m *Manager) Reconcile(ctx context.Context, user *models.User) (*Status, error) {
	const op = "services.lifecycle.Reconcile"

	key := subscriptionCacheKey(user.UID)

	var sub *models.Subscription
	var cached models.Subscription
	found, err := m.cache.Get(key, &cached)
	if err != nil {
		m.log.Warn("failed to read subscription from cache", sl.Err(err),
			slog.String("user_uid", user.UID))
	}
	if found {
		sub = &cached
	} else {
		sub, err = m.subs.GetActiveSubscription(ctx, user.UID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if sub != nil {
			if err := m.cache.Set(key, sub, subscriptionCacheTTL); err != nil {
				m.log.Warn("failed to cache subscription", sl.Err(err),
					slog.String("user_uid", user.UID))
			}
		}
	}

	now := time.Now().UTC()
	if sub != nil && sub.IsValid(now) {
		return &Status{HasActiveSubscription: true, Subscription: sub}, nil
	}

	if user.Role == models.RolePaid {
		if err := m.users.UpdateUserRole(ctx, user.UID, models.RoleFree); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		user.Role = models.RoleFree
		m.log.Info("demoted user to free, subscription expired",
			slog.String("user_uid", user.UID))
	}

	return &Status{HasActiveSubscription: false}, nil
}
