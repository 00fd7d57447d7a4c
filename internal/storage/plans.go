package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/startuplense/content-platform/internal/models"
)

// ListActivePlans возвращает доступные для покупки планы по возрастанию цены.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, price, duration_in_days, is_lifetime,
			      array_to_string(features, E'\n'), is_active, created_at
			  FROM plans
			  WHERE is_active = true
			  ORDER BY price`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		var item models.Plan
		var features string
		if err := rows.Scan(&item.UID, &item.Name, &item.Price, &item.DurationInDays,
			&item.IsLifetime, &features, &item.IsActive, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if features != "" {
			item.Features = strings.Split(features, "\n")
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPlan возвращает план по его UID.
func (s *Storage) GetPlan(ctx context.Context, planUID string) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, price, duration_in_days, is_lifetime,
			      array_to_string(features, E'\n'), is_active, created_at
			  FROM plans
			  WHERE uid = $1`
	p := &models.Plan{}
	var features string
	row := s.DB.QueryRowContext(ctx, query, planUID)
	if err := row.Scan(&p.UID, &p.Name, &p.Price, &p.DurationInDays,
		&p.IsLifetime, &features, &p.IsActive, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrPlanNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if features != "" {
		p.Features = strings.Split(features, "\n")
	}
	return p, nil
}
