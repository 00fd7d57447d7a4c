package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/startuplense/content-platform/internal/models"
)

// CreateArticle сохраняет новую статью и возвращает её UID.
func (s *Storage) CreateArticle(ctx context.Context, article models.Article) (string, error) {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO articles (slug, title, content, is_premium, status, published_at, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		article.Slug, article.Title, article.Content, article.IsPremium,
		article.Status, article.PublishedAt, article.CreatedBy).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetArticleBySlug возвращает статью по её slug вместе с полным текстом.
func (s *Storage) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	const op = "storage.GetArticleBySlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, slug, title, content, is_premium, read_count, status,
			      published_at, created_by, created_at
			  FROM articles
			  WHERE slug = $1`
	a := &models.Article{}
	var publishedAt sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, slug)
	if err := row.Scan(&a.UID, &a.Slug, &a.Title, &a.Content, &a.IsPremium,
		&a.ReadCount, &a.Status, &publishedAt, &a.CreatedBy, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return a, nil
}

// ListArticles возвращает опубликованные статьи с пагинацией, без полного
// текста. При includePremium=false премиум-статьи исключаются из выдачи:
// бесплатные и анонимные читатели не видят их в списках.
func (s *Storage) ListArticles(ctx context.Context, includePremium bool, limit, offset int) ([]*models.Article, error) {
	const op = "storage.ListArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, slug, title, is_premium, read_count, status,
			      published_at, created_by, created_at
			  FROM articles
			  WHERE status = 'published'
			  	AND ($1 OR is_premium = false)
			  ORDER BY published_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, includePremium, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Article
	for rows.Next() {
		var item models.Article
		var publishedAt sql.NullTime
		if err := rows.Scan(&item.UID, &item.Slug, &item.Title, &item.IsPremium,
			&item.ReadCount, &item.Status, &publishedAt, &item.CreatedBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if publishedAt.Valid {
			item.PublishedAt = &publishedAt.Time
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IncrementReadCount увеличивает счётчик прочтений статьи на единицу.
// Используется для анонимных чтений, у которых нет записи о доступе.
func (s *Storage) IncrementReadCount(ctx context.Context, articleUID string) error {
	const op = "storage.IncrementReadCount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET read_count = read_count + 1
			  WHERE uid = $1`
	_, err := s.DB.ExecContext(ctx, query, articleUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
