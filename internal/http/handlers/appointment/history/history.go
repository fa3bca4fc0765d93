// Package history реализует HTTP-обработчик истории записей клиента.
package history

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

// Response список записей.
type Response struct {
	response.Response
	Appointments []models.Appointment `json:"appointments"`
}

// Service описывает чтение истории.
type Service interface {
	History(ctx context.Context, identity *models.Identity) ([]models.Appointment, error)
}

// Handler отдаёт записи текущего клиента, новые сверху.
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
// @Summary История записей
// @Description Записи текущего клиента, новые сверху. Читается через кэш Redis.
// @Tags Appointments
// @Produce  json
// @Success 200 {object} Response
// @Success 303 "Нет сессии, редирект на вход"
// @Failure 500 {object} response.ErrorResponse "try again later"
// @Router /client/appointments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.history"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.History(r.Context(), middlewarectx.IdentityFrom(r.Context()))
	if err != nil {
		apperr.Write(w, r, log, err, h.loginPath)
		return
	}
	if list == nil {
		list = []models.Appointment{}
	}
	render.JSON(w, r, Response{Response: response.OK(), Appointments: list})
}
