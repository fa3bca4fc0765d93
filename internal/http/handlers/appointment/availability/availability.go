// Package availability реализует проверку, свободен ли интервал мастера.
package availability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/appointment/apperr"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/response"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// Response результат проверки.
type Response struct {
	response.Response
	Available bool `json:"available"`
}

// Service описывает проверку интервала.
type Service interface {
	CheckAvailability(ctx context.Context, identity *models.Identity, providerID, startTime, endTime string) (bool, error)
}

// Handler отвечает на GET с параметрами providerId, startTime, endTime.
type Handler struct {
	log       *slog.Logger
	service   Service
	loginPath string
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, loginPath string) *Handler {
	return &Handler{log: log, service: service, loginPath: loginPath}
}

// ServeHTTP godoc
// @Summary Свободен ли интервал
// @Description Только чтение, повторный вызов без записей между ними даёт тот же ответ.
// @Tags Appointments
// @Produce  json
// @Param providerId query string true "Мастер"
// @Param startTime query string true "Начало, RFC 3339"
// @Param endTime query string true "Конец, RFC 3339"
// @Success 200 {object} Response
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "try again later"
// @Router /client/availability [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.availability"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	available, err := h.service.CheckAvailability(
		r.Context(),
		middlewarectx.IdentityFrom(r.Context()),
		q.Get("providerId"),
		q.Get("startTime"),
		q.Get("endTime"),
	)
	if err != nil {
		apperr.Write(w, r, log, err, h.loginPath)
		return
	}
	render.JSON(w, r, Response{Response: response.OK(), Available: available})
}
