// Package catalogue отдаёт активные услуги барбершопа с длительностью,
// по которой форма записи считает время окончания.
package catalogue

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/response"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// Item услуга в ответе.
type Item struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Response каталог.
type Response struct {
	response.Response
	Services []Item `json:"services"`
}

// Lister читает каталог.
type Lister interface {
	ListServices(ctx context.Context) ([]models.BarberService, error)
}

// Handler отдаёт каталог услуг.
type Handler struct {
	log    *slog.Logger
	lister Lister
}

// New создает новый Handler.
func New(log *slog.Logger, lister Lister) *Handler {
	return &Handler{log: log, lister: lister}
}

// ServeHTTP godoc
// @Summary Каталог услуг
// @Tags Catalogue
// @Produce  json
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse "try again later"
// @Router /api/v1/services [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalogue"

	list, err := h.lister.ListServices(r.Context())
	if err != nil {
		h.log.Error("failed to list services",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgTryAgainLater))
		return
	}

	items := make([]Item, 0, len(list))
	for _, svc := range list {
		items = append(items, Item{ID: svc.ID, Name: svc.Name, DurationMinutes: int(svc.Duration.Minutes())})
	}
	render.JSON(w, r, Response{Response: response.OK(), Services: items})
}
