package models

import "time"

// AppointmentStatus статус записи.
type AppointmentStatus string

const (
	// StatusPending запись создана и ждёт подтверждения
	StatusPending AppointmentStatus = "PENDING"
	// StatusConfirmed запись подтверждена мастером или администратором
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	// StatusCancelled запись отменена
	StatusCancelled AppointmentStatus = "CANCELLED"
	// StatusCompleted услуга оказана
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// Occupying сообщает, занимает ли запись в этом статусе время мастера.
func (s AppointmentStatus) Occupying() bool {
	return s == StatusPending || s == StatusConfirmed
}

// OccupyingStatuses статусы, которые учитываются при проверке пересечений.
var OccupyingStatuses = []AppointmentStatus{StatusPending, StatusConfirmed}

// Appointment запись клиента к мастеру на услугу в полуинтервале [StartTime, EndTime).
type Appointment struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"clientId"`
	ProviderID string            `json:"providerId"`
	ServiceID  string            `json:"serviceId"`
	StartTime  time.Time         `json:"startTime"`
	EndTime    time.Time         `json:"endTime"`
	Status     AppointmentStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// Overlaps проверяет пересечение полуинтервалов [aStart, aEnd) и [bStart, bEnd).
// Касание концов (aEnd == bStart) пересечением не считается.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
