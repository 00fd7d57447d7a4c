// Package get реализует HTTP-обработчик чтения статьи по slug.
//
// Handler загружает статью, пропускает её через движок проверки доступа
// и при положительном решении отдаёт полный текст и фиксирует прочтение.
// Отказ в доступе транслируется в 401 или 403 с машиночитаемым кодом причины.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/startuplense/content-platform/internal/http/middlewarectx"
	"github.com/startuplense/content-platform/internal/http/response"
	"github.com/startuplense/content-platform/internal/lib/sl"
	"github.com/startuplense/content-platform/internal/models"
	"github.com/startuplense/content-platform/internal/services/entitlement"
	"github.com/startuplense/content-platform/internal/storage"
)

// Handler обрабатывает запросы на чтение статьи.
type Handler struct {
	log          *slog.Logger // Логгер для записи информации и ошибок
	articles     ArticleProvider
	entitlements Entitlements
}

// ArticleProvider описывает интерфейс чтения статьи из хранилища.
type ArticleProvider interface {
	GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
}

// Entitlements описывает интерфейс движка проверки доступа.
type Entitlements interface {
	CheckAccess(ctx context.Context, user *models.User, article *models.Article) (*entitlement.Decision, error)
	Record(ctx context.Context, user *models.User, article *models.Article) error
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, articles ArticleProvider, entitlements Entitlements) *Handler {
	return &Handler{
		log:          log,
		articles:     articles,
		entitlements: entitlements,
	}
}

// ServeHTTP godoc
// @Summary Прочитать статью
// @Description Возвращает статью по slug. Для премиум-контента выполняется проверка доступа.
// @Tags Articles
// @Produce  json
// @Param slug path string true "Slug статьи"
// @Success 200 {object} map[string]any "Статья"
// @Failure 401 {object} response.DeniedResponse "Требуется аутентификация"
// @Failure 403 {object} response.DeniedResponse "Требуется подписка или исчерпана квота"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /articles/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")
	user := middlewarectx.UserFromContext(r.Context())

	article, err := h.articles.GetArticleBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			log.Info("article not found", slog.String("slug", slug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
			return
		}
		log.Error("failed to read article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read article"))
		return
	}

	// черновики не видны никому, кроме администраторов
	if article.Status != models.ArticleStatusPublished &&
		(user == nil || user.Role != models.RoleAdmin) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("article not found"))
		return
	}

	decision, err := h.entitlements.CheckAccess(r.Context(), user, article)
	if err != nil {
		log.Error("failed to check access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check access"))
		return
	}
	if !decision.Allowed {
		log.Info("access denied",
			slog.String("slug", slug),
			slog.String("reason", decision.Reason))
		if decision.Reason == entitlement.ReasonAuthRequired {
			w.WriteHeader(http.StatusUnauthorized)
		} else {
			w.WriteHeader(http.StatusForbidden)
		}
		render.JSON(w, r, response.AccessDenied(decision.Message, decision.Reason, decision.Limit))
		return
	}

	if err := h.entitlements.Record(r.Context(), user, article); err != nil {
		log.Error("failed to record access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not record access"))
		return
	}

	log.Info("article served", slog.String("slug", slug))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"article": article,
	}))
}
