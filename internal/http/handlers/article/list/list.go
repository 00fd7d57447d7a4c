// Package list реализует HTTP-обработчик списка опубликованных статей.
//
// Бесплатные и анонимные читатели не видят премиум-статьи в выдаче,
// подписчики и администраторы видят весь каталог.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/startuplense/content-platform/internal/http/middlewarectx"
	"github.com/startuplense/content-platform/internal/http/response"
	"github.com/startuplense/content-platform/internal/lib/sl"
	"github.com/startuplense/content-platform/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler обрабатывает запросы на получение списка статей.
type Handler struct {
	log      *slog.Logger // Логгер для записи информации и ошибок
	articles ArticleProvider
}

// ArticleProvider описывает интерфейс чтения списка статей из хранилища.
type ArticleProvider interface {
	ListArticles(ctx context.Context, includePremium bool, limit, offset int) ([]*models.Article, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, articles ArticleProvider) *Handler {
	return &Handler{
		log:      log,
		articles: articles,
	}
}

// ServeHTTP godoc
// @Summary Список статей
// @Description Возвращает опубликованные статьи с пагинацией. Премиум-статьи видны только подписчикам и администраторам.
// @Tags Articles
// @Produce  json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список статей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	user := middlewarectx.UserFromContext(r.Context())
	includePremium := user != nil &&
		(user.Role == models.RolePaid || user.Role == models.RoleAdmin)

	articles, err := h.articles.ListArticles(r.Context(), includePremium, limit, offset)
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list articles"))
		return
	}

	log.Info("articles listed", slog.Int("count", len(articles)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"articles": articles,
		"limit":    limit,
		"offset":   offset,
	}))
}
