package models

import "time"

// BookingInput сырые данные формы записи. Допускаются две формы:
// дата + время (конец вычисляется по длительности услуги)
// или явные startTime/endTime в ISO-8601.
type BookingInput struct {
	ProviderID string `json:"providerId" validate:"required"`
	ServiceID  string `json:"serviceId" validate:"required"`
	Date       string `json:"date,omitempty"`      // YYYY-MM-DD
	Time       string `json:"time,omitempty"`      // HH:mm
	StartTime  string `json:"startTime,omitempty"` // RFC 3339
	EndTime    string `json:"endTime,omitempty"`   // RFC 3339
}

// BookingRequest нормализованный запрос на запись.
type BookingRequest struct {
	ProviderID string
	ServiceID  string
	StartTime  time.Time
	EndTime    time.Time
}
