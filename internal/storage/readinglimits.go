package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/startuplense/content-platform/internal/models"
)

// GetReadingLimit возвращает лимиты чтения для роли. Отсутствие строки —
// ошибка конфигурации ErrLimitNotConfigured: вызывающий обязан вернуть
// внутреннюю ошибку, а не разрешить доступ по умолчанию.
func (s *Storage) GetReadingLimit(ctx context.Context, role string) (*models.ReadingLimit, error) {
	const op = "storage.GetReadingLimit"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT role, max_reads_per_month, max_premium_reads_per_month
			  FROM reading_limits
			  WHERE role = $1`
	limit := &models.ReadingLimit{}
	row := s.DB.QueryRowContext(ctx, query, role)
	if err := row.Scan(&limit.Role, &limit.MaxReadsPerMonth, &limit.MaxPremiumReadsPerMonth); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrLimitNotConfigured)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return limit, nil
}
