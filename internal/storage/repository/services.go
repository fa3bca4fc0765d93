package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// GetService возвращает услугу каталога по идентификатору.
func (s *Storage) GetService(ctx context.Context, id string) (*models.BarberService, error) {
	const op = "repository.GetService"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, duration_minutes, active FROM services WHERE id = $1`
	var (
		svc     models.BarberService
		minutes int
	)
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&svc.ID, &svc.Name, &minutes, &svc.Active); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	svc.Duration = time.Duration(minutes) * time.Minute
	return &svc, nil
}

// ListServices возвращает активные услуги, отсортированные по названию.
func (s *Storage) ListServices(ctx context.Context) ([]models.BarberService, error) {
	const op = "repository.ListServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, duration_minutes, active FROM services WHERE active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.BarberService
	for rows.Next() {
		var (
			svc     models.BarberService
			minutes int
		)
		if err := rows.Scan(&svc.ID, &svc.Name, &minutes, &svc.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		svc.Duration = time.Duration(minutes) * time.Minute
		result = append(result, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
