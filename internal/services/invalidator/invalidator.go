// Package invalidator сбрасывает кэш истории клиента по событиям о записях.
package invalidator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/services/booking"
)

// Cache то, что нужно инвалидатору от кэша.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Service обрабатывает события appointment.created и appointment.status_changed.
type Service struct {
	cache Cache
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, cache Cache) *Service {
	return &Service{
		cache: cache,
		log:   log,
	}
}

// Handle разбирает событие и удаляет ключ истории клиента.
// Битое сообщение подтверждается и отбрасывается, ошибка кэша возвращает его в очередь.
func (s *Service) Handle(ctx context.Context, body []byte) error {
	const op = "invalidator.Handle"
	log := s.log.With(slog.String("op", op))

	var event models.AppointmentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal event, dropping", sl.Err(err))
		return nil
	}
	if event.ClientID == "" {
		log.Warn("event without client id, dropping",
			slog.String("type", event.Type),
			slog.String("appointment_id", event.AppointmentID),
		)
		return nil
	}

	if err := s.cache.Invalidate(ctx, booking.HistoryKey(event.ClientID)); err != nil {
		log.Warn("failed to invalidate history", slog.String("client_id", event.ClientID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Debug("history invalidated",
		slog.String("type", event.Type),
		slog.String("client_id", event.ClientID),
		slog.String("appointment_id", event.AppointmentID),
	)
	return nil
}
