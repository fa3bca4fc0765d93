package catalogue

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

type ListerMock struct {
	mock.Mock
}

func (m *ListerMock) ListServices(ctx context.Context) ([]models.BarberService, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.BarberService)
	return list, args.Error(1)
}

func TestCatalogue(t *testing.T) {
	tests := []struct {
		name       string
		list       []models.BarberService
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "services",
			list:       []models.BarberService{{ID: "beard", Name: "Beard trim", Duration: 30 * time.Minute, Active: true}},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"services":[{"id":"beard","name":"Beard trim","durationMinutes":30}]}`,
		},
		{
			name:       "empty",
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"services":[]}`,
		},
		{
			name:       "storage error",
			err:        errors.New("timeout"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"try again later"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := new(ListerMock)
			lister.On("ListServices", mock.Anything).Return(tt.list, tt.err).Once()

			rec := httptest.NewRecorder()
			New(sl.NewDiscardLogger(), lister).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
