// Package middlewarectx содержит HTTP middleware сервиса записи.
//
// Guard проверяет токен сессии (Authorization: Bearer или cookie session) по канонической
// таблице префиксов и при отказе перенаправляет на страницу входа. Для действительной сессии
// владелец кладётся в контекст, а старый токен перевыпускается.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/barbershop-booking/internal/access"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/metrics"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/services/auth"
)

// Authorizer решает, пропускать ли запрос.
type Authorizer interface {
	Authorize(token, requestPath string) access.Decision
}

// Renewer перевыпускает токен сессии.
type Renewer interface {
	Renew(claims *jwt.CustomClaims) (auth.Session, bool, error)
}

// Guard возвращает middleware проверки доступа. renewer может быть nil.
func Guard(log *slog.Logger, authz Authorizer, renewer Renewer, loginPath string, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Guard"

			decision := authz.Authorize(TokenFromRequest(r), r.URL.Path)
			if !decision.Allow {
				log.Info("access denied",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.String("reason", string(decision.Reason)),
				)
				m.Denied(string(decision.Reason))
				RedirectToLogin(w, r, loginPath)
				return
			}
			if decision.Claims == nil {
				next.ServeHTTP(w, r)
				return
			}

			if renewer != nil {
				session, renewed, err := renewer.Renew(decision.Claims)
				switch {
				case err != nil:
					log.Warn("failed to renew session", slog.String("op", op), sl.Err(err))
				case renewed:
					SetSessionCookie(w, r, session.Token, session.ExpiresAt)
					w.Header().Set(SessionHeader, session.Token)
				}
			}

			identity := models.Identity{ID: decision.Claims.UserID, Role: decision.Claims.Role}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
