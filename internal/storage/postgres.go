// Package storage реализует хранилище данных на основе PostgreSQL
// для пользователей, планов, подписок, статей, записей о доступе
// и лимитов чтения.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Типизированные ошибки хранилища. Отсутствие строки лимитов —
// ошибка конфигурации: она никогда не должна трактоваться как
// разрешение или запрет доступа.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrArticleNotFound    = errors.New("article not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrLimitNotConfigured = errors.New("reading limit is not configured for role")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table subscriptions missing or query error: %w", err)
	}
	return nil
}
