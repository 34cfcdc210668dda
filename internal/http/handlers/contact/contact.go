// Package contact реализует HTTP-обработчик контактной формы.
//
// Тело запроса разбирается в models.ContactSubmission и передается сервису.
// Ошибки схемы возвращаются со статусом 422 и сообщениями по полям до
// любых побочных эффектов.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/validation"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	contactsvc "github.com/magabrotheeeer/awfixer-portal/internal/services/contact"
)

const maxBodySize = 64 << 10

// Service принимает заявки.
type Service interface {
	Submit(ctx context.Context, sub models.ContactSubmission, remoteIP string) (*contactsvc.Result, error)
}

// Handler обрабатывает POST /api/v1/contact.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отправка контактной формы
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body models.ContactSubmission true "Заявка"
// @Success 200 {object} contact.Result
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или капча"
// @Failure 422 {object} response.ValidationErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Не удалось передать заявку"
// @Router /contact [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ContactSubmission
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	res, err := h.service.Submit(r.Context(), req, middlewarectx.ClientIP(r))
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			log.Info("validation failed", slog.Any("fields", verr.Fields))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verr.Fields))
		case errors.Is(err, contactsvc.ErrCaptchaFailed):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("captcha verification failed"))
		case errors.Is(err, contactsvc.ErrCaptchaUnavailable):
			log.Error("captcha verification unavailable", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("captcha verification unavailable"))
		default:
			log.Error("failed to submit contact form", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to send message, please try again later"))
		}
		return
	}

	render.JSON(w, r, res)
}
