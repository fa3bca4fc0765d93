// Package create реализует HTTP-обработчик создания записи клиента к мастеру.
//
// Принимает форму {providerId, serviceId, date, time} или {providerId, serviceId, startTime, endTime},
// создаёт запись в статусе PENDING и возвращает {success: true, appointment}.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/appointment/apperr"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/response"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// Response созданная запись.
type Response struct {
	response.Response
	Appointment *models.Appointment `json:"appointment"`
}

// Service описывает создание записи.
type Service interface {
	Book(ctx context.Context, identity *models.Identity, input models.BookingInput) (*models.Appointment, error)
}

// Handler управляет HTTP-запросами на создание записи.
type Handler struct {
	log       *slog.Logger
	service   Service
	loginPath string
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, loginPath string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		loginPath: loginPath,
	}
}

// ServeHTTP godoc
// @Summary Записаться к мастеру
// @Description Создаёт запись в статусе PENDING. Пересечение с активной записью мастера даёт 409.
// @Tags Appointments
// @Accept  json
// @Produce  json
// @Param request body models.BookingInput true "Форма записи"
// @Success 201 {object} Response
// @Success 303 "Нет сессии, редирект на вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "slot no longer available"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "try again later"
// @Router /client/appointments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var input models.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	created, err := h.service.Book(r.Context(), middlewarectx.IdentityFrom(r.Context()), input)
	if err != nil {
		apperr.Write(w, r, log, err, h.loginPath)
		return
	}

	log.Info("appointment created", slog.String("appointment_id", created.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Response: response.OK(), Appointment: created})
}
