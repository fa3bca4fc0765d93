// Package status реализует смену статуса записи мастером или администратором
// и отмену записи клиентом.
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/appointment/apperr"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/response"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/validation"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// Request новый статус.
type Request struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED CANCELLED COMPLETED"`
}

// Response запись после смены статуса.
type Response struct {
	response.Response
	Appointment *models.Appointment `json:"appointment"`
}

// Service описывает смену статуса.
type Service interface {
	UpdateStatus(ctx context.Context, identity *models.Identity, id string, status models.AppointmentStatus) (*models.Appointment, error)
}

// Handler меняет статус записи из параметра пути {id}.
type Handler struct {
	log       *slog.Logger
	service   Service
	validate  *validator.Validate
	loginPath string
	cancel    bool
}

// New создаёт обработчик PATCH с телом {status}.
func New(log *slog.Logger, service Service, loginPath string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		validate:  validation.New(),
		loginPath: loginPath,
	}
}

// NewCancel создаёт обработчик отмены без тела запроса.
func NewCancel(log *slog.Logger, service Service, loginPath string) *Handler {
	h := New(log, service, loginPath)
	h.cancel = true
	return h
}

// ServeHTTP godoc
// @Summary Сменить статус записи
// @Description PENDING -> CONFIRMED|CANCELLED, CONFIRMED -> COMPLETED|CANCELLED. Мастер меняет только свои записи.
// @Tags Appointments
// @Accept  json
// @Produce  json
// @Param id path string true "Запись"
// @Param request body Request true "Новый статус"
// @Success 200 {object} Response
// @Failure 403 {object} response.ErrorResponse "Чужая запись"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Переход запрещён"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /barber/appointments/{id}/status [patch]
// @Router /client/appointments/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.status"
	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("appointment_id", id),
	)

	target := models.StatusCancelled
	if !h.cancel {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("failed to decode request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.MsgInvalidBody))
			return
		}
		if err := h.validate.Struct(req); err != nil {
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
			return
		}
		target = models.AppointmentStatus(req.Status)
	}

	updated, err := h.service.UpdateStatus(r.Context(), middlewarectx.IdentityFrom(r.Context()), id, target)
	if err != nil {
		apperr.Write(w, r, log, err, h.loginPath)
		return
	}
	log.Info("status changed", slog.String("status", string(updated.Status)))
	render.JSON(w, r, Response{Response: response.OK(), Appointment: updated})
}
