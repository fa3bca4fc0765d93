// Package logout реализует выход: удаляет cookie сессии.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/response"
)

// Handler обрабатывает выход.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Удаляет cookie session. Токен из заголовка клиент забывает сам.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response
// @Router /api/v1/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	middlewarectx.ClearSessionCookie(w, r)
	if identity := middlewarectx.IdentityFrom(r.Context()); identity != nil {
		log.Info("logout", slog.String("user_id", identity.ID))
	}
	render.JSON(w, r, response.OK())
}
