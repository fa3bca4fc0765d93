package middlewarectx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey ключ владельца сессии в контексте.
const IdentityKey Key = "identity"

// SessionCookie имя cookie с токеном сессии.
const SessionCookie = "session"

// SessionHeader заголовок, в котором отдаётся перевыпущенный токен.
const SessionHeader = "X-Session-Token"

// WithIdentity кладёт владельца сессии в контекст.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFrom достаёт владельца сессии из контекста. nil, если запрос без сессии.
func IdentityFrom(ctx context.Context) *models.Identity {
	identity, ok := ctx.Value(IdentityKey).(models.Identity)
	if !ok || identity.ID == "" {
		return nil
	}
	return &identity
}

// TokenFromRequest берёт токен из заголовка Authorization: Bearer, иначе из cookie session.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// SetSessionCookie выставляет HttpOnly cookie с токеном до expiresAt.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет cookie сессии.
func ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// RedirectToLogin отправляет клиента на страницу входа.
func RedirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string) {
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
