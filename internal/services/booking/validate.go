package booking

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/storage"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	fieldProviderID = "providerId"
	fieldServiceID  = "serviceId"
	fieldDate       = "date"
	fieldTime       = "time"
	fieldStartTime  = "startTime"
	fieldEndTime    = "endTime"

	msgRequired       = "field is required"
	msgBadDate        = "must be a date in YYYY-MM-DD format"
	msgBadTime        = "must be a time in HH:mm format"
	msgBadInstant     = "must be an ISO-8601 timestamp"
	msgEndBeforeStart = "must be after startTime"
	msgTooLong        = "appointment is longer than allowed"
	msgInPast         = "must not be in the past"
	msgUnknownService = "unknown service"
	msgUnknownBarber  = "unknown barber"
)

// ValidationError перечисляет некорректные поля формы. Ключ имя поля в JSON.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func newID() string {
	return uuid.NewString()
}

// isUUID отсекает идентификаторы, которые PostgreSQL не примет в колонке UUID.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Normalize превращает форму записи в типизированный запрос.
//
// Поддерживаются две формы: date + time (конец равен началу плюс длительность услуги)
// и явные startTime + endTime. Пустые и состоящие из пробелов идентификаторы отклоняются.
// Мастер и услуга проверяются по каталогу.
func (s *Service) Normalize(ctx context.Context, input models.BookingInput) (models.BookingRequest, error) {
	const op = "booking.Normalize"
	in := trimInput(input)
	verr := &ValidationError{Fields: map[string]string{}}

	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return models.BookingRequest{}, fmt.Errorf("%s: %w", op, err)
		}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), msgRequired)
		}
	}

	var (
		start, end  time.Time
		explicitEnd bool
	)
	if in.StartTime != "" || in.EndTime != "" {
		explicitEnd = true
		start = parseInstant(in.StartTime, fieldStartTime, verr)
		end = parseInstant(in.EndTime, fieldEndTime, verr)
		if !start.IsZero() && !end.IsZero() && !end.After(start) {
			verr.add(fieldEndTime, msgEndBeforeStart)
		}
	} else {
		start = s.parseDateTime(in, verr)
	}
	if err := verr.orNil(); err != nil {
		return models.BookingRequest{}, err
	}

	service, err := s.repo.GetService(ctx, in.ServiceID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		verr.add(fieldServiceID, msgUnknownService)
	case err != nil:
		return models.BookingRequest{}, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	case !service.Active:
		verr.add(fieldServiceID, msgUnknownService)
	}

	if isUUID(in.ProviderID) {
		provider, err := s.repo.GetUserByID(ctx, in.ProviderID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			verr.add(fieldProviderID, msgUnknownBarber)
		case err != nil:
			return models.BookingRequest{}, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
		case provider.Role != models.RoleBarber:
			verr.add(fieldProviderID, msgUnknownBarber)
		}
	} else {
		verr.add(fieldProviderID, msgUnknownBarber)
	}
	if err := verr.orNil(); err != nil {
		return models.BookingRequest{}, err
	}

	if !explicitEnd {
		end = start.Add(service.Duration)
	}
	if s.opts.MaxDuration > 0 && end.Sub(start) > s.opts.MaxDuration {
		verr.add(fieldEndTime, msgTooLong)
	}
	if start.Before(s.now().Add(-s.opts.PastSkew)) {
		if explicitEnd {
			verr.add(fieldStartTime, msgInPast)
		} else {
			verr.add(fieldDate, msgInPast)
		}
	}
	if err := verr.orNil(); err != nil {
		return models.BookingRequest{}, err
	}

	return models.BookingRequest{
		ProviderID: in.ProviderID,
		ServiceID:  in.ServiceID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
	}, nil
}

func trimInput(in models.BookingInput) models.BookingInput {
	return models.BookingInput{
		ProviderID: strings.TrimSpace(in.ProviderID),
		ServiceID:  strings.TrimSpace(in.ServiceID),
		Date:       strings.TrimSpace(in.Date),
		Time:       strings.TrimSpace(in.Time),
		StartTime:  strings.TrimSpace(in.StartTime),
		EndTime:    strings.TrimSpace(in.EndTime),
	}
}

func parseInstant(value, field string, verr *ValidationError) time.Time {
	if value == "" {
		verr.add(field, msgRequired)
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		verr.add(field, msgBadInstant)
		return time.Time{}
	}
	return t
}

func (s *Service) parseDateTime(in models.BookingInput, verr *ValidationError) time.Time {
	if in.Date == "" {
		verr.add(fieldDate, msgRequired)
	} else if _, err := time.Parse(dateLayout, in.Date); err != nil {
		verr.add(fieldDate, msgBadDate)
	}
	if in.Time == "" {
		verr.add(fieldTime, msgRequired)
	} else if _, err := time.Parse(timeLayout, in.Time); err != nil {
		verr.add(fieldTime, msgBadTime)
	}
	if len(verr.Fields) > 0 {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, in.Date+" "+in.Time, s.opts.Location)
	if err != nil {
		verr.add(fieldDate, msgBadDate)
		return time.Time{}
	}
	return t
}

// parseWindow разбирает мастера и интервал для проверки занятости.
func (s *Service) parseWindow(providerID, startTime, endTime string) (string, time.Time, time.Time, error) {
	verr := &ValidationError{Fields: map[string]string{}}
	providerID = strings.TrimSpace(providerID)
	switch {
	case providerID == "":
		verr.add(fieldProviderID, msgRequired)
	case !isUUID(providerID):
		verr.add(fieldProviderID, msgUnknownBarber)
	}
	start := parseInstant(strings.TrimSpace(startTime), fieldStartTime, verr)
	end := parseInstant(strings.TrimSpace(endTime), fieldEndTime, verr)
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		verr.add(fieldEndTime, msgEndBeforeStart)
	}
	if err := verr.orNil(); err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return providerID, start.UTC(), end.UTC(), nil
}
