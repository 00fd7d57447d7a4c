// Package create реализует HTTP-обработчик создания статьи.
//
// Создание статей доступно только администраторам. Handler валидирует
// входные данные, сохраняет статью и возвращает её идентификатор.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/startuplense/content-platform/internal/http/middlewarectx"
	"github.com/startuplense/content-platform/internal/http/response"
	"github.com/startuplense/content-platform/internal/lib/sl"
	"github.com/startuplense/content-platform/internal/models"
)

// Handler обрабатывает запросы на создание статьи.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	articles ArticleRepository   // Хранилище статей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// ArticleRepository описывает интерфейс сохранения статьи.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article models.Article) (string, error)
}

// New создает новый Handler с переданными логгером и хранилищем.
func New(log *slog.Logger, articles ArticleRepository) *Handler {
	return &Handler{
		log:      log,
		articles: articles,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать статью
// @Description Создает новую статью. Доступно только администраторам.
// @Tags Articles
// @Accept  json
// @Produce  json
// @Param request body models.DummyArticle true "Данные статьи"
// @Success 200 {object} map[string]any "Статья создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /articles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user := middlewarectx.UserFromContext(r.Context())
	if user == nil || user.Role != models.RoleAdmin {
		log.Error("article create forbidden for non-admin")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	}

	var req models.DummyArticle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("slug", req.Slug))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	status := req.Status
	if status == "" {
		status = models.ArticleStatusPublished
	}
	article := models.Article{
		Slug:      req.Slug,
		Title:     req.Title,
		Content:   req.Content,
		IsPremium: req.IsPremium,
		Status:    status,
		CreatedBy: user.UID,
	}
	if status == models.ArticleStatusPublished {
		now := time.Now().UTC()
		article.PublishedAt = &now
	}

	uid, err := h.articles.CreateArticle(r.Context(), article)
	if err != nil {
		log.Error("failed to create article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create article"))
		return
	}

	log.Info("article created", slog.String("article_uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"article_uid": uid,
		"slug":        req.Slug,
	}))
}
