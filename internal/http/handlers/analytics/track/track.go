// Package track реализует HTTP-обработчик приёма клиентских событий аналитики.
//
// События принимаются и от анонимных посетителей. Ответ всегда успешный:
// потеря события не должна ломать клиент.
package track

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/startuplense/content-platform/internal/http/middlewarectx"
	"github.com/startuplense/content-platform/internal/http/response"
	"github.com/startuplense/content-platform/internal/lib/sl"
	"github.com/startuplense/content-platform/internal/models"
)

// Handler обрабатывает запросы на отправку события аналитики.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис отправки событий
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс отправки клиентского события.
type Service interface {
	Track(ctx context.Context, userUID string, req models.DummyTrackEvent)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить событие аналитики
// @Description Принимает клиентское событие. Доступно анонимным посетителям.
// @Tags Analytics
// @Accept  json
// @Produce  json
// @Param request body models.DummyTrackEvent true "Событие"
// @Success 200 {object} response.Response "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /analytics/track [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.track"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTrackEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var userUID string
	if user := middlewarectx.UserFromContext(r.Context()); user != nil {
		userUID = user.UID
	}

	h.service.Track(r.Context(), userUID, req)

	log.Info("event tracked", slog.String("event", req.Event))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
