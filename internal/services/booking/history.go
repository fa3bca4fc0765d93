package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

const defaultScheduleWindow = 7 * 24 * time.Hour

// History возвращает записи клиента, новые сверху. Читает через кэш:
// промах или ошибка кэша ведут в хранилище, ошибка кэша только логируется.
func (s *Service) History(ctx context.Context, identity *models.Identity) ([]models.Appointment, error) {
	const op = "booking.History"
	if !authenticated(identity) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	log := s.log.With(slog.String("op", op), slog.String("client_id", identity.ID))
	key := HistoryKey(identity.ID)

	if s.cache != nil {
		var cached []models.Appointment
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("history cache read failed", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	list, err := s.repo.ListByClient(ctx, identity.ID)
	if err != nil {
		log.Error("failed to list appointments", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, list, s.opts.HistoryTTL); err != nil {
			log.Warn("history cache write failed", sl.Err(err))
		}
	}
	return list, nil
}

// Schedule возвращает записи мастера в окне [from, to).
//
// Мастер видит только своё расписание, администратор любое (пустой providerID значит всех).
// Пустой from означает начало текущего дня, пустой to означает from плюс неделя.
func (s *Service) Schedule(ctx context.Context, identity *models.Identity, providerID, from, to string) ([]models.Appointment, error) {
	const op = "booking.Schedule"
	if !authenticated(identity) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	providerID = strings.TrimSpace(providerID)
	switch identity.Role {
	case models.RoleAdmin:
		if providerID != "" && !isUUID(providerID) {
			return nil, newValidationError(fieldProviderID, msgUnknownBarber)
		}
	case models.RoleBarber:
		if providerID != "" && providerID != identity.ID {
			return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
		}
		providerID = identity.ID
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	start, end, err := s.scheduleWindow(from, to)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByProvider(ctx, providerID, start, end)
	if err != nil {
		s.log.Error("failed to list schedule", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
	return list, nil
}

func (s *Service) scheduleWindow(from, to string) (time.Time, time.Time, error) {
	verr := &ValidationError{Fields: map[string]string{}}
	start := s.parseBound(strings.TrimSpace(from), "from", verr)
	if start.IsZero() && len(verr.Fields) == 0 {
		now := s.now().In(s.opts.Location)
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.opts.Location)
	}
	end := s.parseBound(strings.TrimSpace(to), "to", verr)
	if end.IsZero() && !start.IsZero() {
		end = start.Add(defaultScheduleWindow)
	}
	if len(verr.Fields) == 0 && !end.After(start) {
		verr.add("to", "must be after from")
	}
	if err := verr.orNil(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.UTC(), end.UTC(), nil
}

// parseBound принимает RFC 3339 или дату YYYY-MM-DD. Пустая строка даёт нулевое время.
func (s *Service) parseBound(value, field string, verr *ValidationError) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(dateLayout, value, s.opts.Location); err == nil {
		return t
	}
	verr.add(field, msgBadInstant)
	return time.Time{}
}

// IsValidation сообщает, является ли err ошибкой проверки формы, и возвращает её.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
