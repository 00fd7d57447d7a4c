package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/startuplense/content-platform/internal/models"
)

// GetActiveSubscription возвращает активную подписку пользователя.
// При наличии нескольких активных строк (возможное временное нарушение
// инварианта при гонке) источником истины считается самая свежая.
// Отсутствие активной подписки — не ошибка: возвращается (nil, nil).
func (s *Storage) GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_uid, start_date, end_date, is_active, payment_id, created_at
			  FROM subscriptions
			  WHERE user_uid = $1 AND is_active = true
			  ORDER BY created_at DESC
			  LIMIT 1`
	sub := &models.Subscription{}
	var paymentID sql.NullString
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.PlanUID, &sub.StartDate,
		&sub.EndDate, &sub.IsActive, &paymentID, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if paymentID.Valid {
		sub.PaymentID = &paymentID.String
	}
	return sub, nil
}

// ActivateSubscription в одной транзакции деактивирует прежние подписки
// пользователя, создаёт новую активную и переводит роль пользователя
// в paid. Частичное применение (подписка без роли или наоборот)
// исключено границей транзакции.
func (s *Storage) ActivateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.ActivateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET is_active = false WHERE user_uid = $1 AND is_active = true`,
		sub.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO subscriptions (user_uid, plan_uid, start_date, end_date, is_active, payment_id)
			  VALUES ($1, $2, $3, $4, true, $5)
			  RETURNING id, created_at`
	var paymentID any
	if sub.PaymentID != nil {
		paymentID = *sub.PaymentID
	}
	if err := tx.QueryRowContext(ctx, query,
		sub.UserUID, sub.PlanUID, sub.StartDate, sub.EndDate, paymentID).
		Scan(&sub.ID, &sub.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.IsActive = true

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET role = $1 WHERE uid = $2`,
		models.RolePaid, sub.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}
