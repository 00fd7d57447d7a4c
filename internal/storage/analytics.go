package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/startuplense/content-platform/internal/models"
)

// InsertAnalyticsEvent сохраняет аналитическое событие. UserUID и
// ArticleUID могут быть пустыми (анонимные события и события без статьи).
func (s *Storage) InsertAnalyticsEvent(ctx context.Context, event models.AnalyticsEvent) error {
	const op = "storage.InsertAnalyticsEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var metadata any
	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		metadata = raw
	}

	var userUID, articleUID any
	if event.UserUID != "" {
		userUID = event.UserUID
	}
	if event.ArticleUID != "" {
		articleUID = event.ArticleUID
	}

	query := `INSERT INTO analytics_events (user_uid, event, article_uid, duration, metadata, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		userUID, event.Event, articleUID, event.Duration, metadata, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
