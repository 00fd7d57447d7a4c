// Package entitlement содержит движок проверки доступа к статьям.
//
// Движок принимает решение по цепочке правил: бесплатные статьи открыты всем,
// премиум-контент требует аутентификации, администраторы читают без ограничений,
// платные пользователи проверяются по фактической подписке, бесплатные — по
// месячной квоте прочтений.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/startuplense/content-platform/internal/lib/quota"
	"github.com/startuplense/content-platform/internal/lib/sl"
	"github.com/startuplense/content-platform/internal/models"
	"github.com/startuplense/content-platform/internal/services/lifecycle"
)

// Коды отказа в доступе, отдаются клиенту вместе с HTTP-статусом.
const (
	ReasonAuthRequired         = "AUTH_REQUIRED"
	ReasonSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	ReasonQuotaExceeded        = "QUOTA_EXCEEDED"
)

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "content_entitlement_decisions_total",
	Help: "Access decisions for premium content, by outcome.",
}, []string{"outcome"})

var articleReadsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "content_article_reads_total",
	Help: "Recorded article reads.",
})

// Decision — результат проверки доступа к статье.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// Reconciler сверяет роль пользователя с фактическим состоянием подписки.
type Reconciler interface {
	Reconcile(ctx context.Context, user *models.User) (*lifecycle.Status, error)
}

// LimitProvider возвращает лимиты чтения для роли.
type LimitProvider interface {
	GetReadingLimit(ctx context.Context, role string) (*models.ReadingLimit, error)
}

// AccessLedger описывает контракт учёта прочтений в базе данных.
type AccessLedger interface {
	// CountAccessesSince возвращает число уникальных статей, прочитанных пользователем с указанного момента.
	CountAccessesSince(ctx context.Context, userUID string, since time.Time) (int, error)

	// HasAccessRecord сообщает, читал ли пользователь статью ранее.
	HasAccessRecord(ctx context.Context, userUID, articleUID string) (bool, error)

	// RecordAccess фиксирует прочтение и увеличивает счётчик просмотров статьи.
	RecordAccess(ctx context.Context, rec models.AccessRecord) error
}

// ArticleCounter увеличивает счётчик просмотров статьи без привязки к пользователю.
type ArticleCounter interface {
	IncrementReadCount(ctx context.Context, articleUID string) error
}

// EventSink принимает аналитические события, ошибки доставки не критичны.
type EventSink interface {
	Publish(ctx context.Context, event models.AnalyticsEvent) error
}

// Engine принимает решения о доступе и фиксирует прочтения.
type Engine struct {
	lifecycle Reconciler
	limits    LimitProvider
	ledger    AccessLedger
	articles  ArticleCounter
	events    EventSink
	log       *slog.Logger
}

// NewEngine создает новый экземпляр Engine.
func NewEngine(lc Reconciler, limits LimitProvider, ledger AccessLedger,
	articles ArticleCounter, events EventSink, log *slog.Logger) *Engine {
	return &Engine{
		lifecycle: lc,
		limits:    limits,
		ledger:    ledger,
		articles:  articles,
		events:    events,
		log:       log,
	}
}

// CheckAccess проверяет, может ли пользователь прочитать статью.
// user == nil означает анонимного читателя. Для платных пользователей
// с истёкшей подпиской происходит понижение роли, после чего проверка
// продолжается по правилам бесплатной роли.
func (e *Engine) CheckAccess(ctx context.Context, user *models.User, article *models.Article) (*Decision, error) {
	const op = "services.entitlement.CheckAccess"

	if !article.IsPremium {
		decisionsTotal.WithLabelValues("allowed").Inc()
		return &Decision{Allowed: true}, nil
	}

	if user == nil {
		decisionsTotal.WithLabelValues("auth_required").Inc()
		return &Decision{
			Reason:  ReasonAuthRequired,
			Message: "authentication required for premium content",
		}, nil
	}

	if user.Role == models.RoleAdmin {
		decisionsTotal.WithLabelValues("allowed").Inc()
		return &Decision{Allowed: true}, nil
	}

	if user.Role == models.RolePaid {
		status, err := e.lifecycle.Reconcile(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if status.HasActiveSubscription {
			decisionsTotal.WithLabelValues("allowed").Inc()
			return &Decision{Allowed: true}, nil
		}
		// подписка истекла, роль уже понижена — дальше проверяем как free
	}

	return e.checkQuota(ctx, user, article)
}

// checkQuota проверяет месячную квоту премиум-прочтений бесплатного пользователя.
// Повторное чтение уже открытой статьи квоту не расходует.
func (e *Engine) checkQuota(ctx context.Context, user *models.User, article *models.Article) (*Decision, error) {
	const op = "services.entitlement.checkQuota"

	limit, err := e.limits.GetReadingLimit(ctx, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if quota.IsUnlimited(limit.MaxReadsPerMonth) {
		decisionsTotal.WithLabelValues("allowed").Inc()
		return &Decision{Allowed: true}, nil
	}

	count, err := e.ledger.CountAccessesSince(ctx, user.UID, quota.StartOfMonth(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count < limit.MaxReadsPerMonth {
		decisionsTotal.WithLabelValues("allowed").Inc()
		return &Decision{Allowed: true}, nil
	}

	alreadyRead, err := e.ledger.HasAccessRecord(ctx, user.UID, article.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if alreadyRead {
		decisionsTotal.WithLabelValues("allowed").Inc()
		return &Decision{Allowed: true}, nil
	}

	decisionsTotal.WithLabelValues("quota_exceeded").Inc()
	return &Decision{
		Reason:  ReasonQuotaExceeded,
		Message: fmt.Sprintf("monthly reading limit of %d articles reached", limit.MaxReadsPerMonth),
		Limit:   limit.MaxReadsPerMonth,
	}, nil
}

// Record фиксирует состоявшееся прочтение статьи.
//
// Для аутентифицированного пользователя создаётся или обновляется запись
// в журнале доступа вместе со счётчиком просмотров; для анонимного
// увеличивается только счётчик. Аналитическое событие отправляется после
// записи, ошибка доставки логируется и не прерывает запрос.
func (e *Engine) Record(ctx context.Context, user *models.User, article *models.Article) error {
	const op = "services.entitlement.Record"

	now := time.Now().UTC()
	if user != nil {
		rec := models.AccessRecord{UserUID: user.UID, ArticleUID: article.UID, ReadAt: now}
		if err := e.ledger.RecordAccess(ctx, rec); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if err := e.articles.IncrementReadCount(ctx, article.UID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	articleReadsTotal.Inc()

	event := models.AnalyticsEvent{
		Event:      models.EventArticleRead,
		ArticleUID: article.UID,
		CreatedAt:  now,
	}
	if user != nil {
		event.UserUID = user.UID
	}
	if err := e.events.Publish(ctx, event); err != nil {
		e.log.Warn("failed to publish read event",
			slog.String("article_uid", article.UID), sl.Err(err))
	}

	return nil
}
