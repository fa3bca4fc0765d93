// Package apperr переводит ошибки сервиса записи в HTTP-ответы.
package apperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/response"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/services/booking"
)

// MsgTransitionNotAllowed смена статуса запрещена из текущего состояния.
const MsgTransitionNotAllowed = "status change not allowed"

// Write отвечает на ошибку err.
//
// Ошибки проверки дают 422 с сообщениями по полям, отсутствие сессии даёт редирект на loginPath,
// детали ошибок хранилища пишутся только в лог.
func Write(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, loginPath string) {
	if verr, ok := booking.IsValidation(err); ok {
		log.Info("validation failed", slog.Any("fields", verr.Fields))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Fields(verr.Fields))
		return
	}

	switch {
	case errors.Is(err, booking.ErrUnauthenticated):
		log.Info("no session, redirecting to login")
		middlewarectx.RedirectToLogin(w, r, loginPath)
		return
	case errors.Is(err, booking.ErrForbidden):
		log.Info("forbidden", sl.Err(err))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error(response.MsgForbidden))
	case errors.Is(err, booking.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
	case errors.Is(err, booking.ErrSlotUnavailable):
		log.Info("slot unavailable")
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error(response.MsgSlotUnavailable))
	case errors.Is(err, booking.ErrInvalidTransition):
		log.Info("transition rejected", sl.Err(err))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error(MsgTransitionNotAllowed))
	default:
		log.Error("request failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgTryAgainLater))
	}
}
