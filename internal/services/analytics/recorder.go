package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/startuplense/content-platform/internal/lib/sl"
	"github.com/startuplense/content-platform/internal/models"
)

// EventRepository описывает контракт записи событий в базу данных.
type EventRepository interface {
	InsertAnalyticsEvent(ctx context.Context, event models.AnalyticsEvent) error
}

// RecorderService читает события из очереди и сохраняет их в базу данных.
type RecorderService struct {
	repo EventRepository
	log  *slog.Logger
}

// NewRecorderService создает новый экземпляр RecorderService.
func NewRecorderService(repo EventRepository, log *slog.Logger) *RecorderService {
	return &RecorderService{
		repo: repo,
		log:  log,
	}
}

// Handle разбирает тело сообщения и сохраняет событие. Ошибка разбора
// необратима, поэтому не возвращается наверх: повторная доставка такого
// сообщения не поможет.
func (s *RecorderService) Handle(body []byte) error {
	const op = "services.analytics.Handle"

	var event models.AnalyticsEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal event body", sl.Err(err))
		return nil
	}

	if err := s.repo.InsertAnalyticsEvent(context.Background(), event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("analytics event recorded",
		slog.String("event", event.Event),
		slog.String("user_uid", event.UserUID))
	return nil
}
