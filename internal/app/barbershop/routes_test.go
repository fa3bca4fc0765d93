package barbershop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/barbershop-booking/internal/access"
	"github.com/magabrotheeeer/barbershop-booking/internal/config"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/metrics"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/services/auth"
)

type AuthMock struct {
	mock.Mock
}

func (m *AuthMock) Login(ctx context.Context, email, password string) (auth.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *AuthMock) Register(ctx context.Context, email, name, password string) (auth.Session, error) {
	args := m.Called(ctx, email, name, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *AuthMock) Renew(claims *jwt.CustomClaims) (auth.Session, bool, error) {
	args := m.Called(claims)
	return args.Get(0).(auth.Session), args.Bool(1), args.Error(2)
}

type BookingMock struct {
	mock.Mock
}

func (m *BookingMock) Book(ctx context.Context, identity *models.Identity, input models.BookingInput) (*models.Appointment, error) {
	args := m.Called(ctx, identity, input)
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

func (m *BookingMock) History(ctx context.Context, identity *models.Identity) ([]models.Appointment, error) {
	args := m.Called(ctx, identity)
	list, _ := args.Get(0).([]models.Appointment)
	return list, args.Error(1)
}

func (m *BookingMock) CheckAvailability(ctx context.Context, identity *models.Identity, providerID, startTime, endTime string) (bool, error) {
	args := m.Called(ctx, identity, providerID, startTime, endTime)
	return args.Bool(0), args.Error(1)
}

func (m *BookingMock) Schedule(ctx context.Context, identity *models.Identity, providerID, from, to string) ([]models.Appointment, error) {
	args := m.Called(ctx, identity, providerID, from, to)
	list, _ := args.Get(0).([]models.Appointment)
	return list, args.Error(1)
}

func (m *BookingMock) UpdateStatus(ctx context.Context, identity *models.Identity, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	args := m.Called(ctx, identity, id, status)
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

type catalogueStub struct{}

func (catalogueStub) ListServices(context.Context) ([]models.BarberService, error) {
	return []models.BarberService{{ID: "svc-1", Name: "Haircut", Duration: 30 * time.Minute, Active: true}}, nil
}

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

type testEnv struct {
	router  chi.Router
	maker   *jwt.MakerImpl
	auth    *AuthMock
	booking *BookingMock
}

func newTestEnv(t *testing.T, dbErr error) *testEnv {
	t.Helper()
	cfg := config.Access{
		LoginPath:    "/login",
		AdminPrefix:  "/admin",
		BarberPrefix: "/barber",
		ClientPrefix: "/client",
	}
	maker := jwt.NewJWTMaker("secret", time.Hour, time.Hour)
	authz, err := access.New(maker, access.DefaultRules(cfg))
	require.NoError(t, err)

	env := &testEnv{
		router:  chi.NewRouter(),
		maker:   maker,
		auth:    new(AuthMock),
		booking: new(BookingMock),
	}
	env.auth.On("Renew", mock.Anything).Return(auth.Session{}, false, nil).Maybe()

	RegisterRoutes(env.router, sl.NewDiscardLogger(), cfg, 5*time.Second, Deps{
		Auth:       env.auth,
		Booking:    env.booking,
		Catalogue:  catalogueStub{},
		DB:         pingStub{err: dbErr},
		Authorizer: authz,
		Limiter:    middlewarectx.NewRateLimiter(100, 100),
		Metrics:    metrics.NewNop(),
	})
	return env
}

func (e *testEnv) token(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	tok, err := e.maker.GenerateToken(userID, role)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestRoutes_AccessControl(t *testing.T) {
	env := newTestEnv(t, nil)
	env.booking.On("History", mock.Anything, &models.Identity{ID: "client-1", Role: models.RoleClient}).
		Return([]models.Appointment{}, nil)
	env.booking.On("Schedule", mock.Anything, &models.Identity{ID: "admin-1", Role: models.RoleAdmin}, "barber-1", "", "").
		Return([]models.Appointment{}, nil)

	client := env.token(t, "client-1", models.RoleClient)
	barber := env.token(t, "barber-1", models.RoleBarber)
	admin := env.token(t, "admin-1", models.RoleAdmin)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{name: "client area without session", path: "/client/appointments", wantStatus: http.StatusSeeOther},
		{name: "client reads history", path: "/client/appointments", token: client, wantStatus: http.StatusOK},
		{name: "client in barber area", path: "/barber/appointments", token: client, wantStatus: http.StatusSeeOther},
		{name: "barber in admin area", path: "/admin/appointments", token: barber, wantStatus: http.StatusSeeOther},
		{name: "admin reads schedule", path: "/admin/appointments?providerId=barber-1", token: admin, wantStatus: http.StatusOK},
		{name: "login page is open", path: "/login", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(http.MethodGet, tt.path, tt.token, "")
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, "/login", rr.Header().Get("Location"))
			}
		})
	}
	env.booking.AssertExpectations(t)
}

func TestRoutes_StatusChange(t *testing.T) {
	env := newTestEnv(t, nil)
	identity := &models.Identity{ID: "barber-1", Role: models.RoleBarber}
	env.booking.On("UpdateStatus", mock.Anything, identity, "a-1", models.StatusConfirmed).
		Return(&models.Appointment{ID: "a-1", Status: models.StatusConfirmed}, nil)

	rr := env.do(http.MethodPatch, "/barber/appointments/a-1/status", env.token(t, "barber-1", models.RoleBarber), `{"status":"CONFIRMED"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"CONFIRMED"`)
	env.booking.AssertExpectations(t)
}

func TestRoutes_ClientCancel(t *testing.T) {
	env := newTestEnv(t, nil)
	identity := &models.Identity{ID: "client-1", Role: models.RoleClient}
	env.booking.On("UpdateStatus", mock.Anything, identity, "a-1", models.StatusCancelled).
		Return(&models.Appointment{ID: "a-1", Status: models.StatusCancelled}, nil)

	rr := env.do(http.MethodPost, "/client/appointments/a-1/cancel", env.token(t, "client-1", models.RoleClient), "")

	assert.Equal(t, http.StatusOK, rr.Code)
	env.booking.AssertExpectations(t)
}

func TestRoutes_Login(t *testing.T) {
	env := newTestEnv(t, nil)
	session := auth.Session{
		Token:     "tok",
		Identity:  models.Identity{ID: "client-1", Role: models.RoleClient},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	env.auth.On("Login", mock.Anything, "ann@example.com", "secret").Return(session, nil)

	rr := env.do(http.MethodPost, "/api/v1/login", "", `{"email":"ann@example.com","password":"secret"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == middlewarectx.SessionCookie {
			found = true
			assert.Equal(t, "tok", c.Value)
		}
	}
	assert.True(t, found)
	env.auth.AssertExpectations(t)
}

func TestRoutes_OpenEndpoints(t *testing.T) {
	t.Run("services", func(t *testing.T) {
		rr := newTestEnv(t, nil).do(http.MethodGet, "/api/v1/services", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Haircut")
	})
	t.Run("healthz ok", func(t *testing.T) {
		rr := newTestEnv(t, nil).do(http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})
	t.Run("healthz database down", func(t *testing.T) {
		rr := newTestEnv(t, errors.New("down")).do(http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
	t.Run("session without token", func(t *testing.T) {
		rr := newTestEnv(t, nil).do(http.MethodGet, "/api/v1/session", "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
