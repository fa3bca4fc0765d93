package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/storage"
)

const appointmentColumns = `id, client_id, provider_id, service_id, start_time, end_time, status, created_at`

// Пересечение полуинтервалов [start_time, end_time) и [$2, $3): start_time < $3 AND end_time > $2.
// Набор статусов совпадает с предикатом ограничения appointments_no_overlap.
const overlapQuery = `SELECT EXISTS (
		SELECT 1 FROM appointments
		WHERE provider_id = $1
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND start_time < $3
		  AND end_time > $2
	)`

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateAppointment атомарно проверяет интервал мастера и вставляет запись.
//
// Проверка и вставка идут в одной транзакции под pg_advisory_xact_lock по мастеру,
// поэтому конкурентные попытки для одного мастера выполняются по очереди. Если гонка
// всё же дошла до базы, ограничение appointments_no_overlap отклоняет вставку.
// В обоих случаях возвращается storage.ErrSlotUnavailable.
func (s *Storage) CreateAppointment(ctx context.Context, a models.Appointment) (*models.Appointment, error) {
	const op = "repository.CreateAppointment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, a.ProviderID); err != nil {
		return nil, fmt.Errorf("%s: lock provider: %w", op, err)
	}

	var busy bool
	if err := tx.QueryRowContext(ctx, overlapQuery, a.ProviderID, a.StartTime, a.EndTime).Scan(&busy); err != nil {
		return nil, fmt.Errorf("%s: overlap check: %w", op, err)
	}
	if busy {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSlotUnavailable)
	}

	created, err := insertAppointment(ctx, tx, a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, mapError(err))
	}
	return created, nil
}

func insertAppointment(ctx context.Context, q execQuerier, a models.Appointment) (*models.Appointment, error) {
	query := `INSERT INTO appointments (id, client_id, provider_id, service_id, start_time, end_time, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING created_at`
	if err := q.QueryRowContext(ctx, query,
		a.ID, a.ClientID, a.ProviderID, a.ServiceID, a.StartTime, a.EndTime, string(a.Status),
	).Scan(&a.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

// HasOverlap сообщает, есть ли у мастера активная запись, пересекающая [start, end).
// Только чтение: повторный вызов без записей между ними даёт тот же ответ.
func (s *Storage) HasOverlap(ctx context.Context, providerID string, start, end time.Time) (bool, error) {
	const op = "repository.HasOverlap"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var busy bool
	if err := s.DB.QueryRowContext(ctx, overlapQuery, providerID, start, end).Scan(&busy); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return busy, nil
}

// GetAppointment возвращает запись по идентификатору.
func (s *Storage) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	const op = "repository.GetAppointment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return a, nil
}

// ListByClient возвращает историю записей клиента, новые сверху.
func (s *Storage) ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	const op = "repository.ListByClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE client_id = $1
		 ORDER BY start_time DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectAppointments(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListByProvider возвращает записи, пересекающие окно [from, to), по возрастанию времени.
// Пустой providerID означает всех мастеров.
func (s *Storage) ListByProvider(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error) {
	const op = "repository.ListByProvider"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE ($1 = '' OR provider_id::text = $1)
		   AND start_time < $3
		   AND end_time > $2
		 ORDER BY start_time ASC`, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectAppointments(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func collectAppointments(rows *sql.Rows) ([]models.Appointment, error) {
	defer func() {
		_ = rows.Close()
	}()
	result := make([]models.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanAppointment(row rowScanner) (*models.Appointment, error) {
	var (
		a      models.Appointment
		status string
	)
	if err := row.Scan(&a.ID, &a.ClientID, &a.ProviderID, &a.ServiceID,
		&a.StartTime, &a.EndTime, &status, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Status = models.AppointmentStatus(status)
	a.StartTime = a.StartTime.UTC()
	a.EndTime = a.EndTime.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

// UpdateStatus меняет статус записи с from на to. Допустимость перехода проверяет вызывающий.
// Если статус уже не равен from, запись не меняется и возвращается storage.ErrStatusChanged.
func (s *Storage) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error {
	const op = "repository.UpdateStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE appointments SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, storage.ErrStatusChanged)
}
