package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/storage"
)

// transitions допустимые смены статуса. CANCELLED и COMPLETED конечные.
var transitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
}

// CanTransition проверяет переход from -> to.
func CanTransition(from, to models.AppointmentStatus) bool {
	return slices.Contains(transitions[from], to)
}

// UpdateStatus меняет статус записи.
//
// Администратор меняет любую запись, мастер только свои, клиент может лишь отменить свою.
// Отмена освобождает интервал мастера.
func (s *Service) UpdateStatus(ctx context.Context, identity *models.Identity, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	const op = "booking.UpdateStatus"
	if !authenticated(identity) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if !isUUID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	log := s.log.With(slog.String("op", op), slog.String("appointment_id", id), slog.String("user_id", identity.ID))

	a, err := s.repo.GetAppointment(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		log.Error("failed to load appointment", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}

	switch identity.Role {
	case models.RoleAdmin:
	case models.RoleBarber:
		if a.ProviderID != identity.ID {
			return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
		}
	case models.RoleClient:
		if a.ClientID != identity.ID || status != models.StatusCancelled {
			return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
		}
	}

	if !CanTransition(a.Status, status) {
		return nil, fmt.Errorf("%s: %s -> %s: %w", op, a.Status, status, ErrInvalidTransition)
	}
	if err := s.repo.UpdateStatus(ctx, id, a.Status, status); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrStatusChanged):
			log.Info("status changed by a concurrent request", slog.String("read_status", string(a.Status)))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidTransition)
		}
		log.Error("failed to update status", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}

	a.Status = status
	log.Info("appointment status changed", slog.String("status", string(status)))
	s.afterChange(ctx, log, models.EventAppointmentStatusChanged, *a)
	return a, nil
}
