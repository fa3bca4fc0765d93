// Package session отдаёт разобранные данные текущей сессии {id, role}.
// Клиент использует их для навигации, решения о доступе принимает сервер.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/response"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

const (
	// MsgNoSession нет действительной сессии.
	MsgNoSession = "no active session"
	// MsgLoginRequired ответ точки входа, на которую ведёт редирект.
	MsgLoginRequired = "login required: POST /api/v1/login"
)

// Response данные сессии.
type Response struct {
	response.Response
	Identity models.Identity `json:"identity"`
}

// Handler отдаёт владельца сессии из контекста, который заполнил middlewarectx.Guard.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущая сессия
// @Description Возвращает {id, role} из действительного токена.
// @Tags Auth
// @Produce  json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Router /api/v1/session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.session"

	identity := middlewarectx.IdentityFrom(r.Context())
	if identity == nil {
		h.log.Debug("no session",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(MsgNoSession))
		return
	}
	render.JSON(w, r, Response{Response: response.OK(), Identity: *identity})
}

// LoginRequired точка входа для редиректа: API без HTML-страницы отвечает 401.
//
// @Summary Точка входа
// @Tags Auth
// @Produce  json
// @Failure 401 {object} response.ErrorResponse
// @Router /login [get]
func LoginRequired(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(MsgLoginRequired))
}
