package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/password"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/metrics"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/services/auth"
	"github.com/magabrotheeeer/barbershop-booking/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userID string, role models.Role) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*jwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func (m *JwtMakerMock) NeedsRenewal(claims *jwt.CustomClaims) bool {
	return m.Called(claims).Bool(0)
}

const secret = "test-secret"

func newService(repo auth.UserRepository) (*auth.Service, *jwt.MakerImpl) {
	maker := jwt.NewJWTMaker(secret, 720*time.Hour, 24*time.Hour)
	return auth.NewService(sl.NewDiscardLogger(), repo, maker, 720*time.Hour, metrics.NewNop()), maker
}

func storedUser(t *testing.T, raw string) *models.User {
	t.Helper()
	hash, err := password.GetHash(raw)
	require.NoError(t, err)
	return &models.User{
		UUID:         "3f6d1c2a-0000-4000-8000-000000000001",
		Email:        "john@example.com",
		PasswordHash: hash,
		Name:         "John",
		Role:         models.RoleBarber,
	}
}

func TestService_Authenticate(t *testing.T) {
	user := storedUser(t, "correct-horse")

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "correct credentials",
			email:    "john@example.com",
			password: "correct-horse",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
			},
		},
		{
			name:     "email is normalised before lookup",
			email:    "  John@Example.com ",
			password: "correct-horse",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "john@example.com",
			password: "battery-staple",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
			},
			wantErr: auth.ErrInvalidCredential,
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "whatever",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").
					Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name:     "corrupted hash",
			email:    "john@example.com",
			password: "correct-horse",
			setupMocks: func(r *UserRepoMock) {
				broken := *user
				broken.PasswordHash = "plaintext"
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(&broken, nil).Once()
			},
			wantErr: auth.ErrInvalidCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc, _ := newService(repo)

			identity, err := svc.Authenticate(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, models.Identity{}, identity)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.Identity{ID: user.UUID, Name: "John", Role: models.RoleBarber}, identity)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Authenticate_StorageFailure(t *testing.T) {
	repo := new(UserRepoMock)
	dbErr := errors.New("connection refused")
	repo.On("GetUserByEmail", mock.Anything, "john@example.com").Return(nil, dbErr).Once()
	svc, _ := newService(repo)

	_, err := svc.Authenticate(context.Background(), "john@example.com", "pw")
	require.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, auth.ErrNotFound)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestService_Login_IssuesVerifiableToken(t *testing.T) {
	user := storedUser(t, "correct-horse")
	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
	svc, maker := newService(repo)

	session, err := svc.Login(context.Background(), "john@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotContains(t, session.Token, user.PasswordHash)
	assert.WithinDuration(t, time.Now().Add(720*time.Hour), session.ExpiresAt, time.Minute)

	claims, err := maker.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.UUID, claims.UserID)
	assert.Equal(t, models.RoleBarber, claims.Role)

	identity, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.UUID, identity.ID)
	assert.Equal(t, models.RoleBarber, identity.Role)
}

func TestService_IssueSession_SignerFailure(t *testing.T) {
	maker := new(JwtMakerMock)
	maker.On("GenerateToken", "u1", models.RoleClient).Return("", errors.New("sign failed")).Once()
	svc := auth.NewService(sl.NewDiscardLogger(), new(UserRepoMock), maker, time.Hour, nil)

	_, err := svc.IssueSession(models.Identity{ID: "u1", Role: models.RoleClient})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.IssueSession")
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "creates client",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "new@example.com" &&
						u.Name == "New Client" &&
						u.Role == models.RoleClient &&
						u.UUID != "" &&
						password.CompareHash(u.PasswordHash, "s3cret-pass") == nil
				})).Return(nil).Once()
			},
		},
		{
			name:       "password over bcrypt limit",
			password:   strings.Repeat("пароль", 7),
			setupMocks: func(*UserRepoMock) {},
			wantErr:    auth.ErrPasswordTooLong,
		},
		{
			name: "duplicate email",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(errors.Join(errors.New("repository.CreateUser"), storage.ErrEmailTaken)).Once()
			},
			wantErr: auth.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc, _ := newService(repo)

			pw := tt.password
			if pw == "" {
				pw = "s3cret-pass"
			}
			session, err := svc.Register(context.Background(), " New@Example.com", " New Client ", pw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.RoleClient, session.Identity.Role)
				assert.NotEmpty(t, session.Token)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Verify(t *testing.T) {
	svc, _ := newService(new(UserRepoMock))
	other := jwt.NewJWTMaker("other-secret", time.Hour, 0)
	forged, err := other.GenerateToken("u1", models.RoleAdmin)
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", forged} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	}
}

func TestService_Renew(t *testing.T) {
	maker := new(JwtMakerMock)
	svc := auth.NewService(sl.NewDiscardLogger(), new(UserRepoMock), maker, time.Hour, nil)

	fresh := &jwt.CustomClaims{UserID: "u1", Role: models.RoleClient}
	old := &jwt.CustomClaims{UserID: "u2", Role: models.RoleAdmin}
	maker.On("NeedsRenewal", fresh).Return(false)
	maker.On("NeedsRenewal", old).Return(true)
	maker.On("GenerateToken", "u2", models.RoleAdmin).Return("new-token", nil).Once()

	_, renewed, err := svc.Renew(fresh)
	require.NoError(t, err)
	assert.False(t, renewed)

	session, renewed, err := svc.Renew(old)
	require.NoError(t, err)
	assert.True(t, renewed)
	assert.Equal(t, "new-token", session.Token)
	assert.Equal(t, models.RoleAdmin, session.Identity.Role)

	_, renewed, err = svc.Renew(nil)
	require.NoError(t, err)
	assert.False(t, renewed)
	maker.AssertExpectations(t)
}
