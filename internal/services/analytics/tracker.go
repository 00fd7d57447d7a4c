package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/startuplense/content-platform/internal/models"
)

// Tracker принимает клиентские события аналитики и отправляет их в очередь.
type Tracker struct {
	sink *Sink
	log  *slog.Logger
}

// NewTracker создает новый экземпляр Tracker.
func NewTracker(sink *Sink, log *slog.Logger) *Tracker {
	return &Tracker{
		sink: sink,
		log:  log,
	}
}

// Track публикует клиентское событие. Ошибка доставки логируется,
// клиенту всегда отвечаем успехом.
func (t *Tracker) Track(ctx context.Context, userUID string, req models.DummyTrackEvent) {
	event := models.AnalyticsEvent{
		UserUID:    userUID,
		Event:      req.Event,
		ArticleUID: req.ArticleUID,
		Duration:   req.Duration,
		Metadata:   req.Metadata,
		CreatedAt:  time.Now().UTC(),
	}
	if err := t.sink.Publish(ctx, event); err != nil {
		t.log.Warn("failed to publish tracked event",
			slog.String("event", req.Event),
			slog.Any("err", err))
	}
}
