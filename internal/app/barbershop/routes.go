// Package barbershop собирает HTTP-сервис записи: хранилище, кэш, брокер, сервисы,
// маршруты, HTTP- и gRPC-серверы.
package barbershop

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация Swagger-описания для /docs/*.
	_ "github.com/magabrotheeeer/barbershop-booking/docs"
	"github.com/magabrotheeeer/barbershop-booking/internal/config"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/appointment/availability"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/appointment/create"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/appointment/history"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/appointment/schedule"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/appointment/status"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/auth/session"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/catalogue"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/handlers/health"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/metrics"
)

// AuthService то, что маршрутам нужно от шлюза аутентификации.
type AuthService interface {
	login.Service
	register.Service
	middlewarectx.Renewer
}

// BookingService то, что маршрутам нужно от сервиса записи.
type BookingService interface {
	create.Service
	history.Service
	availability.Service
	schedule.Service
	status.Service
}

// Deps зависимости маршрутов.
type Deps struct {
	Auth           AuthService
	Booking        BookingService
	Catalogue      catalogue.Lister
	DB             health.Pinger
	Authorizer     middlewarectx.Authorizer
	Limiter        *middlewarectx.RateLimiter
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
//
// Проверка доступа выполняется один раз на входе по канонической таблице префиксов,
// поэтому группы ниже только раскладывают обработчики.
func RegisterRoutes(r chi.Router, logger *slog.Logger, access config.Access, requestTimeout time.Duration, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.RequestMetrics(d.Metrics),
		middleware.Timeout(requestTimeout),
		middlewarectx.Guard(logger, d.Authorizer, d.Auth, access.LoginPath, d.Metrics),
	)

	r.Get(access.LoginPath, session.LoginRequired)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, d.Limiter))
			r.Post("/login", login.New(logger, d.Auth).ServeHTTP)
			r.Post("/register", register.New(logger, d.Auth).ServeHTTP)
		})
		r.Post("/logout", logout.New(logger).ServeHTTP)
		r.Get("/session", session.New(logger).ServeHTTP)
		r.Get("/services", catalogue.New(logger, d.Catalogue).ServeHTTP)
	})

	// Раздел клиента: любая действительная сессия
	r.Route(access.ClientPrefix, func(r chi.Router) {
		r.Get("/appointments", history.New(logger, d.Booking, access.LoginPath).ServeHTTP)
		r.Post("/appointments", create.New(logger, d.Booking, access.LoginPath).ServeHTTP)
		r.Post("/appointments/{id}/cancel", status.NewCancel(logger, d.Booking, access.LoginPath).ServeHTTP)
		r.Get("/availability", availability.New(logger, d.Booking, access.LoginPath).ServeHTTP)
	})

	// Раздел мастера: BARBER и ADMIN
	r.Route(access.BarberPrefix, func(r chi.Router) {
		r.Get("/appointments", schedule.New(logger, d.Booking, access.LoginPath).ServeHTTP)
		r.Patch("/appointments/{id}/status", status.New(logger, d.Booking, access.LoginPath).ServeHTTP)
	})

	// Раздел администратора: только ADMIN
	r.Route(access.AdminPrefix, func(r chi.Router) {
		r.Get("/appointments", schedule.New(logger, d.Booking, access.LoginPath).ServeHTTP)
		r.Patch("/appointments/{id}/status", status.New(logger, d.Booking, access.LoginPath).ServeHTTP)
	})

	r.Get("/healthz", health.New(logger, d.DB).ServeHTTP)
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
