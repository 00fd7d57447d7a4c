package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/startuplense/content-platform/internal/models"
)

// CreatePayment сохраняет новый платёж и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (string, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO payments (user_uid, plan_uid, gateway, amount, status, order_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		payment.UserUID, payment.PlanUID, payment.Gateway, payment.Amount,
		payment.Status, payment.OrderID).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPayment возвращает платёж по его ID.
func (s *Storage) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_uid, gateway, amount, status, order_id, transaction_id, created_at
			  FROM payments
			  WHERE id = $1`
	p := &models.Payment{}
	row := s.DB.QueryRowContext(ctx, query, paymentID)
	if err := row.Scan(&p.ID, &p.UserUID, &p.PlanUID, &p.Gateway, &p.Amount,
		&p.Status, &p.OrderID, &p.TransactionID, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// SetPaymentOrder привязывает к платежу идентификатор заказа на стороне шлюза.
func (s *Storage) SetPaymentOrder(ctx context.Context, paymentID, orderID string) error {
	const op = "storage.SetPaymentOrder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET order_id = $1
			  WHERE id = $2`
	_, err := s.DB.ExecContext(ctx, query, orderID, paymentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkPaymentStatus обновляет статус платежа и идентификатор транзакции шлюза.
func (s *Storage) MarkPaymentStatus(ctx context.Context, paymentID, status, transactionID string) error {
	const op = "storage.MarkPaymentStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1, transaction_id = $2
			  WHERE id = $3`
	_, err := s.DB.ExecContext(ctx, query, status, transactionID, paymentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
