package models

import "time"

// Виды аналитических событий.
const (
	EventArticleRead         = "ARTICLE_READ"
	EventArticleViewed       = "ARTICLE_VIEWED"
	EventSignup              = "SIGNUP"
	EventLogin               = "LOGIN"
	EventSubscriptionStarted = "SUBSCRIPTION_STARTED"
	EventPaymentCompleted    = "PAYMENT_COMPLETED"
)

// AnalyticsEvent — событие для аналитики. UserUID пуст для анонимных
// посетителей. События публикуются по принципу fire-and-forget: сбой
// записи не влияет на обработку запроса.
type AnalyticsEvent struct {
	UserUID    string            `json:"user_uid,omitempty"`
	Event      string            `json:"event"`
	ArticleUID string            `json:"article_uid,omitempty"`
	Duration   int               `json:"duration,omitempty"` // Секунды чтения
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DummyTrackEvent используется для приёма клиентского события аналитики
// из JSON-запроса.
type DummyTrackEvent struct {
	Event      string            `json:"event" validate:"required"`
	ArticleUID string            `json:"article_id" validate:"omitempty,uuid"`
	Duration   int               `json:"duration" validate:"omitempty,gte=0"`
	Metadata   map[string]string `json:"metadata"`
}
