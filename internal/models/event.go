package models

import "time"

// Типы событий о записях.
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent публикуется в брокер после создания записи или смены её статуса.
// Тип события совпадает с ключом маршрутизации.
type AppointmentEvent struct {
	Type          string            `json:"type"`
	AppointmentID string            `json:"appointment_id"`
	ClientID      string            `json:"client_id"`
	ProviderID    string            `json:"provider_id"`
	Status        AppointmentStatus `json:"status"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// NewAppointmentEvent собирает событие типа eventType по записи a.
func NewAppointmentEvent(eventType string, a Appointment, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:          eventType,
		AppointmentID: a.ID,
		ClientID:      a.ClientID,
		ProviderID:    a.ProviderID,
		Status:        a.Status,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		OccurredAt:    at,
	}
}
