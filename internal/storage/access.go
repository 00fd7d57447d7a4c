package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/startuplense/content-platform/internal/models"
)

// RecordAccess в одной транзакции фиксирует чтение статьи пользователем:
// upsert записи о доступе по ключу (user_uid, article_uid) с перезаписью
// read_at и инкремент счётчика прочтений статьи. Повторный вызов для той
// же пары не создаёт новую строку доступа, поэтому сбой между проверкой
// квоты и записью не приводит к двойному списанию.
func (s *Storage) RecordAccess(ctx context.Context, rec models.AccessRecord) error {
	const op = "storage.RecordAccess"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO article_access (user_uid, article_uid, read_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_uid, article_uid) DO UPDATE SET read_at = EXCLUDED.read_at`,
		rec.UserUID, rec.ArticleUID, rec.ReadAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE articles SET read_count = read_count + 1 WHERE uid = $1`,
		rec.ArticleUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountAccessesSince считает записи о доступе пользователя с read_at не
// раньше since. Поскольку read_at перезаписывается при повторном чтении,
// это приближение числа "новых статей за период": повторное чтение старой
// статьи в новом месяце поднимает её запись в текущее окно.
func (s *Storage) CountAccessesSince(ctx context.Context, userUID string, since time.Time) (int, error) {
	const op = "storage.CountAccessesSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM article_access
			  WHERE user_uid = $1 AND read_at >= $2`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// HasAccessRecord сообщает, открывал ли пользователь статью раньше.
func (s *Storage) HasAccessRecord(ctx context.Context, userUID, articleUID string) (bool, error) {
	const op = "storage.HasAccessRecord"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM article_access WHERE user_uid = $1 AND article_uid = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, articleUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
