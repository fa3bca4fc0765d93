// Package schedule реализует HTTP-обработчик расписания мастера.
//
// Мастер видит только свои записи. Администратор может указать providerId или получить
// записи всех мастеров.
package schedule

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

// Response записи в окне.
type Response struct {
	response.Response
	Appointments []models.Appointment `json:"appointments"`
}

// Service описывает чтение расписания.
type Service interface {
	Schedule(ctx context.Context, identity *models.Identity, providerID, from, to string) ([]models.Appointment, error)
}

// Handler отвечает на GET с параметрами providerId, from, to.
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
// @Summary Расписание мастера
// @Description Записи в окне [from, to). По умолчанию неделя с начала текущего дня.
// @Tags Schedule
// @Produce  json
// @Param providerId query string false "Мастер (для администратора)"
// @Param from query string false "Начало окна, RFC 3339 или YYYY-MM-DD"
// @Param to query string false "Конец окна, RFC 3339 или YYYY-MM-DD"
// @Success 200 {object} Response
// @Failure 403 {object} response.ErrorResponse "Чужое расписание"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "try again later"
// @Router /barber/appointments [get]
// @Router /admin/appointments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.schedule"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	list, err := h.service.Schedule(
		r.Context(),
		middlewarectx.IdentityFrom(r.Context()),
		q.Get("providerId"),
		q.Get("from"),
		q.Get("to"),
	)
	if err != nil {
		apperr.Write(w, r, log, err, h.loginPath)
		return
	}
	if list == nil {
		list = []models.Appointment{}
	}
	render.JSON(w, r, Response{Response: response.OK(), Appointments: list})
}
