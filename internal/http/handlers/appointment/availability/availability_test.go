package availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/services/booking"
)

type AvailabilityServiceMock struct {
	mock.Mock
}

func (m *AvailabilityServiceMock) CheckAvailability(ctx context.Context, identity *models.Identity, providerID, startTime, endTime string) (bool, error) {
	args := m.Called(ctx, identity, providerID, startTime, endTime)
	return args.Bool(0), args.Error(1)
}

func TestAvailabilityHandler(t *testing.T) {
	client := models.Identity{ID: "client-1", Role: models.RoleClient}
	const (
		start = "2030-03-10T10:00:00Z"
		end   = "2030-03-10T11:00:00Z"
	)

	tests := []struct {
		name       string
		available  bool
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "free", available: true, wantStatus: http.StatusOK, wantBody: `{"success":true,"available":true}`},
		{name: "busy", wantStatus: http.StatusOK, wantBody: `{"success":true,"available":false}`},
		{
			name:       "bad window",
			err:        &booking.ValidationError{Fields: map[string]string{"endTime": "must be after startTime"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"success":false,"error":"validation failed","fields":{"endTime":"must be after startTime"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AvailabilityServiceMock)
			svc.On("CheckAvailability", mock.Anything, &client, "barber-1", start, end).Return(tt.available, tt.err).Once()

			req := httptest.NewRequest(http.MethodGet, "/client/availability?providerId=barber-1&startTime="+start+"&endTime="+end, nil)
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), client))
			rec := httptest.NewRecorder()
			New(sl.NewDiscardLogger(), svc, "/login").ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
