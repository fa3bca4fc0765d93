package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

func seed(t *testing.T, repo *fakeRepo, provider string, start, end time.Time) models.Appointment {
	t.Helper()
	a, err := newTestService(repo, nil, nil).CreateAppointment(context.Background(), clientIdentity, request(provider, start, end))
	require.NoError(t, err)
	return *a
}

func TestHistory_CacheMissReadsStorageAndFills(t *testing.T) {
	repo := newFakeRepo()
	seed(t, repo, barberID, at(9, 0), at(10, 0))
	seed(t, repo, barberID, at(12, 0), at(13, 0))

	cache := new(CacheMock)
	key := HistoryKey(clientID)
	cache.On("Get", mock.Anything, key, mock.Anything).Return(false, nil, nil).Once()
	cache.On("Set", mock.Anything, key, mock.MatchedBy(func(v []models.Appointment) bool { return len(v) == 2 }), 10*time.Minute).
		Return(nil).Once()

	list, err := newTestService(repo, cache, nil).History(context.Background(), clientIdentity)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, at(12, 0), list[0].StartTime, "newest first")
	cache.AssertExpectations(t)
}

func TestHistory_CacheHitSkipsStorage(t *testing.T) {
	repo := newFakeRepo()
	cached := []models.Appointment{{ID: "cached", ClientID: clientID, Status: models.StatusConfirmed}}

	cache := new(CacheMock)
	cache.On("Get", mock.Anything, HistoryKey(clientID), mock.Anything).
		Return(true, nil, func(dst any) { *(dst.(*[]models.Appointment)) = cached }).Once()

	list, err := newTestService(repo, cache, nil).History(context.Background(), clientIdentity)
	require.NoError(t, err)
	assert.Equal(t, cached, list)
	assert.Zero(t, repo.callCount())
}

func TestHistory_CacheFailureFallsBack(t *testing.T) {
	repo := newFakeRepo()
	seed(t, repo, barberID, at(9, 0), at(10, 0))

	cache := new(CacheMock)
	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"), nil).Once()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	list, err := newTestService(repo, cache, nil).History(context.Background(), clientIdentity)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHistory_Errors(t *testing.T) {
	_, err := newTestService(newFakeRepo(), nil, nil).History(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	repo := newFakeRepo()
	repo.failWith = errDB
	_, err = newTestService(repo, nil, nil).History(context.Background(), clientIdentity)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestSchedule(t *testing.T) {
	repo := newFakeRepo()
	seed(t, repo, barberID, at(9, 0), at(10, 0))
	seed(t, repo, barberID, at(15, 0), at(16, 0))
	seed(t, repo, barber2ID, at(9, 0), at(10, 0))
	s := newTestService(repo, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		identity   *models.Identity
		providerID string
		from, to   string
		wantLen    int
		wantErr    error
	}{
		{name: "barber sees own day by default", identity: barberIdentity, wantLen: 2},
		{name: "barber may name themselves", identity: barberIdentity, providerID: barberID, wantLen: 2},
		{name: "barber window", identity: barberIdentity, from: "2030-03-10T12:00:00Z", to: "2030-03-10T18:00:00Z", wantLen: 1},
		{name: "barber cannot read colleague", identity: barberIdentity, providerID: barber2ID, wantErr: ErrForbidden},
		{name: "client cannot read schedule", identity: clientIdentity, wantErr: ErrForbidden},
		{name: "admin reads any barber", identity: adminIdentity, providerID: barber2ID, wantLen: 1},
		{name: "admin reads all", identity: adminIdentity, from: "2030-03-10", wantLen: 3},
		{name: "admin window by dates", identity: adminIdentity, from: "2030-03-11", to: "2030-03-12", wantLen: 0},
		{name: "no session", identity: nil, wantErr: ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.Schedule(ctx, tt.identity, tt.providerID, tt.from, tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, list, tt.wantLen)
		})
	}
}

func TestSchedule_InvalidWindow(t *testing.T) {
	s := newTestService(newFakeRepo(), nil, nil)
	for _, w := range [][2]string{
		{"yesterday", ""},
		{"2030-03-10T12:00:00Z", "2030-03-10T11:00:00Z"},
		{"", "not-a-date"},
	} {
		_, err := s.Schedule(context.Background(), adminIdentity, "", w[0], w[1])
		_, ok := IsValidation(err)
		assert.True(t, ok, "window %v", w)
	}
}
