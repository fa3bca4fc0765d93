package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/storage"
)

// fakeRepo хранилище в памяти с той же семантикой пересечений, что и PostgreSQL.
type fakeRepo struct {
	mu           sync.Mutex
	services     map[string]models.BarberService
	users        map[string]models.User
	appointments map[string]models.Appointment
	calls        int
	failWith     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[string]models.BarberService{
			"haircut": {ID: "haircut", Name: "Haircut", Duration: 45 * time.Minute, Active: true},
			"beard":   {ID: "beard", Name: "Beard", Duration: 30 * time.Minute, Active: true},
			"retired": {ID: "retired", Name: "Retired", Duration: 30 * time.Minute, Active: false},
		},
		users: map[string]models.User{
			barberID:  {UUID: barberID, Role: models.RoleBarber},
			barber2ID: {UUID: barber2ID, Role: models.RoleBarber},
			clientID:  {UUID: clientID, Role: models.RoleClient},
		},
		appointments: map[string]models.Appointment{},
	}
}

func (r *fakeRepo) touch() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.failWith
}

func (r *fakeRepo) GetService(_ context.Context, id string) (*models.BarberService, error) {
	if err := r.touch(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &svc, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if err := r.touch(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, a models.Appointment) (*models.Appointment, error) {
	if err := r.touch(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlapLocked(a.ProviderID, a.StartTime, a.EndTime) {
		return nil, storage.ErrSlotUnavailable
	}
	a.CreatedAt = time.Now().UTC()
	r.appointments[a.ID] = a
	return &a, nil
}

func (r *fakeRepo) HasOverlap(_ context.Context, providerID string, start, end time.Time) (bool, error) {
	if err := r.touch(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapLocked(providerID, start, end), nil
}

func (r *fakeRepo) overlapLocked(providerID string, start, end time.Time) bool {
	for _, existing := range r.appointments {
		if existing.ProviderID == providerID && existing.Status.Occupying() &&
			models.Overlaps(existing.StartTime, existing.EndTime, start, end) {
			return true
		}
	}
	return false
}

func (r *fakeRepo) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	if err := r.touch(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (r *fakeRepo) ListByClient(_ context.Context, clientID string) ([]models.Appointment, error) {
	if err := r.touch(); err != nil {
		return nil, err
	}
	return r.filter(func(a models.Appointment) bool { return a.ClientID == clientID }, true), nil
}

func (r *fakeRepo) ListByProvider(_ context.Context, providerID string, from, to time.Time) ([]models.Appointment, error) {
	if err := r.touch(); err != nil {
		return nil, err
	}
	return r.filter(func(a models.Appointment) bool {
		return (providerID == "" || a.ProviderID == providerID) && models.Overlaps(a.StartTime, a.EndTime, from, to)
	}, false), nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, from, to models.AppointmentStatus) error {
	if err := r.touch(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return storage.ErrNotFound
	}
	if a.Status != from {
		return storage.ErrStatusChanged
	}
	a.Status = to
	r.appointments[id] = a
	return nil
}

func (r *fakeRepo) filter(keep func(models.Appointment) bool, desc bool) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Appointment, 0)
	for _, a := range r.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (r *fakeRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// CacheMock мок кэша истории.
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	if fill, ok := args.Get(2).(func(any)); ok && fill != nil {
		fill(result)
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

// PublisherMock мок брокера.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

var errDB = errors.New("connection reset by peer")
