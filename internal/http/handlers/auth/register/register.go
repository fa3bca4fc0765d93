// Package register реализует HTTP-обработчик регистрации клиента.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/response"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/password"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/validation"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/services/auth"
)

// MsgRegistrationFailed не раскрывает, занят ли email.
const MsgRegistrationFailed = "registration failed"

// Request данные нового клиента.
type Request struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72,pwbytes"`
	Name     string `json:"name" validate:"required,max=100"`
}

// Response успешная регистрация.
type Response struct {
	response.Response
	Token     string          `json:"token"`
	Identity  models.Identity `json:"identity"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Service описывает регистрацию.
type Service interface {
	Register(ctx context.Context, email, name, password string) (auth.Session, error)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация клиента
// @Description Создаёт пользователя с ролью CLIENT и сразу открывает сессию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные клиента"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или регистрация невозможна"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /api/v1/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	log = log.With(slog.String("email", sl.MaskEmail(req.Email)))

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	session, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password)
	switch {
	case errors.Is(err, auth.ErrPasswordTooLong):
		log.Info("password too long", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Fields(map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", password.MaxBytes),
		}))
		return
	case errors.Is(err, auth.ErrEmailTaken):
		log.Info("registration rejected", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(MsgRegistrationFailed))
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgTryAgainLater))
		return
	}

	middlewarectx.SetSessionCookie(w, r, session.Token, session.ExpiresAt)
	log.Info("client registered", slog.String("user_id", session.Identity.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Response:  response.OK(),
		Token:     session.Token,
		Identity:  session.Identity,
		ExpiresAt: session.ExpiresAt,
	})
}
