package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/barbershop-booking/internal/migrations"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, migrationsPath))
	return s
}

// TestDataFactory создаёт тестовые данные в обход сервисного слоя.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(s *Storage) *TestDataFactory {
	return &TestDataFactory{storage: s}
}

// CreateUser создаёт пользователя с ролью role и возвращает его.
func (f *TestDataFactory) CreateUser(t *testing.T, role models.Role) models.User {
	t.Helper()
	id := uuid.NewString()
	u := models.User{
		UUID:         id,
		Email:        id + "@example.com",
		PasswordHash: "$2a$10$hash",
		Name:         string(role) + " " + id[:8],
		Role:         role,
	}
	require.NoError(t, f.storage.CreateUser(context.Background(), u))
	return u
}

// Appointment собирает запись без сохранения.
func (f *TestDataFactory) Appointment(client, provider models.User, start, end time.Time) models.Appointment {
	return models.Appointment{
		ID:         uuid.NewString(),
		ClientID:   client.UUID,
		ProviderID: provider.UUID,
		ServiceID:  "haircut",
		StartTime:  start,
		EndTime:    end,
		Status:     models.StatusPending,
	}
}

// at возвращает момент 10 марта 2030 года в UTC.
func at(hour, minute int) time.Time {
	return time.Date(2030, 3, 10, hour, minute, 0, 0, time.UTC)
}
