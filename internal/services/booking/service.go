// Package booking реализует запись клиента к мастеру: разбор и проверку формы записи,
// атомарную проверку пересечений с созданием записи, проверку свободного интервала,
// историю записей клиента с кэшем и расписание мастера.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/validation"
	"github.com/magabrotheeeer/barbershop-booking/internal/metrics"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/storage"
)

var (
	// ErrSlotUnavailable интервал мастера уже занят.
	ErrSlotUnavailable = errors.New("slot no longer available")
	// ErrUnauthenticated вызов без действительной сессии.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden роль не позволяет выполнить действие.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("appointment not found")
	// ErrInvalidTransition недопустимая смена статуса.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrPersistence хранилище недоступно или вернуло неожиданную ошибку.
	ErrPersistence = errors.New("persistence failure")
)

// Repository хранилище услуг, мастеров и записей.
type Repository interface {
	GetService(ctx context.Context, id string) (*models.BarberService, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateAppointment(ctx context.Context, a models.Appointment) (*models.Appointment, error)
	HasOverlap(ctx context.Context, providerID string, start, end time.Time) (bool, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error)
	ListByProvider(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error
}

// Cache кэш истории записей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// EventPublisher отправляет события о записях подписчикам.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Options параметры записи.
type Options struct {
	HistoryTTL  time.Duration  // Время жизни кэша истории
	MaxDuration time.Duration  // Максимальная длительность записи
	PastSkew    time.Duration  // Допуск на расхождение часов для начала в прошлом
	Location    *time.Location // Часовой пояс для формы дата + время
}

// Service сервис записи.
type Service struct {
	log      *slog.Logger
	repo     Repository
	cache    Cache
	events   EventPublisher
	metrics  *metrics.Metrics
	validate *validator.Validate
	opts     Options
	now      func() time.Time
}

// NewService создаёт сервис записи. cache, events и m могут быть nil.
func NewService(log *slog.Logger, repo Repository, cache Cache, events EventPublisher, m *metrics.Metrics, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.PastSkew == 0 {
		opts.PastSkew = 5 * time.Minute
	}
	return &Service{
		log:      log,
		repo:     repo,
		cache:    cache,
		events:   events,
		metrics:  m,
		validate: validation.New(),
		opts:     opts,
		now:      time.Now,
	}
}

// HistoryKey ключ кэша истории записей клиента.
func HistoryKey(clientID string) string {
	return "appointments:history:" + clientID
}

// Book проверяет сессию, разбирает форму и создаёт запись.
func (s *Service) Book(ctx context.Context, identity *models.Identity, input models.BookingInput) (*models.Appointment, error) {
	const op = "booking.Book"
	if !authenticated(identity) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	req, err := s.Normalize(ctx, input)
	if err != nil {
		s.metrics.Booking(outcomeOf(err))
		return nil, err
	}
	return s.CreateAppointment(ctx, identity, req)
}

// CreateAppointment выполняет переход (нет записи) -> PENDING.
//
// Проверка пересечений и вставка атомарны относительно других попыток для того же мастера.
// Занятый интервал даёт ErrSlotUnavailable без записи в хранилище. Повторов нет.
// Сброс кэша истории и публикация события выполняются после успешной вставки и
// на результат не влияют.
func (s *Service) CreateAppointment(ctx context.Context, identity *models.Identity, req models.BookingRequest) (*models.Appointment, error) {
	const op = "booking.CreateAppointment"
	if !authenticated(identity) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	log := s.log.With(
		slog.String("op", op),
		slog.String("client_id", identity.ID),
		slog.String("provider_id", req.ProviderID),
	)

	if !isUUID(req.ProviderID) {
		s.metrics.Booking(metrics.OutcomeInvalid)
		return nil, newValidationError(fieldProviderID, msgUnknownBarber)
	}
	if !req.EndTime.After(req.StartTime) {
		s.metrics.Booking(metrics.OutcomeInvalid)
		return nil, newValidationError(fieldEndTime, msgEndBeforeStart)
	}

	created, err := s.repo.CreateAppointment(ctx, models.Appointment{
		ID:         newID(),
		ClientID:   identity.ID,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		StartTime:  req.StartTime.UTC(),
		EndTime:    req.EndTime.UTC(),
		Status:     models.StatusPending,
	})
	if errors.Is(err, storage.ErrSlotUnavailable) {
		s.metrics.Booking(metrics.OutcomeConflict)
		log.Info("slot unavailable", slog.Time("start", req.StartTime), slog.Time("end", req.EndTime))
		return nil, fmt.Errorf("%s: %w", op, ErrSlotUnavailable)
	}
	if err != nil {
		s.metrics.Booking(metrics.OutcomeError)
		log.Error("failed to create appointment", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}

	s.metrics.Booking(metrics.OutcomeCreated)
	log.Info("appointment created", slog.String("appointment_id", created.ID))
	s.afterChange(ctx, log, models.EventAppointmentCreated, *created)
	return created, nil
}

// CheckAvailability сообщает, свободен ли интервал мастера. Только чтение.
func (s *Service) CheckAvailability(ctx context.Context, identity *models.Identity, providerID, startTime, endTime string) (bool, error) {
	const op = "booking.CheckAvailability"
	if !authenticated(identity) {
		return false, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	providerID, start, end, err := s.parseWindow(providerID, startTime, endTime)
	if err != nil {
		return false, err
	}
	busy, err := s.repo.HasOverlap(ctx, providerID, start, end)
	if err != nil {
		s.log.Error("failed to check availability", slog.String("op", op), sl.Err(err))
		return false, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
	return !busy, nil
}

// afterChange сбрасывает кэш истории клиента и публикует событие. Ошибки только логируются:
// воркер-инвалидатор повторит сброс по событию.
func (s *Service) afterChange(ctx context.Context, log *slog.Logger, eventType string, a models.Appointment) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, HistoryKey(a.ClientID)); err != nil {
			log.Warn("failed to invalidate history cache", sl.Err(err))
		}
	}
	if s.events != nil {
		event := models.NewAppointmentEvent(eventType, a, s.now().UTC())
		if err := s.events.Publish(ctx, eventType, event); err != nil {
			log.Warn("failed to publish appointment event", slog.String("type", eventType), sl.Err(err))
		}
	}
}

func authenticated(identity *models.Identity) bool {
	return identity != nil && identity.ID != "" && identity.Role.Valid()
}

func outcomeOf(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}
