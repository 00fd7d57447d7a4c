package models

import "time"

// Статусы публикации статьи.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article представляет статью платформы. ReadCount — монотонный счётчик,
// увеличивается при каждом успешном чтении независимо от учёта квоты.
type Article struct {
	UID         string     // Уникальный идентификатор статьи
	Slug        string     // Человекочитаемый идентификатор в URL
	Title       string     // Заголовок
	Content     string     // Полный текст статьи
	IsPremium   bool       // Признак премиум-контента
	ReadCount   int        // Счётчик прочтений
	Status      string     // draft или published
	PublishedAt *time.Time // Дата публикации
	CreatedBy   string     // UID автора
	CreatedAt   time.Time  // Дата создания записи
}

// DummyArticle используется для приёма данных новой статьи из JSON-запроса.
type DummyArticle struct {
	Slug      string `json:"slug" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	IsPremium bool   `json:"is_premium"`
	Status    string `json:"status" validate:"omitempty,oneof=draft published"`
}
