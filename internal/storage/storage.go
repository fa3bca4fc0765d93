// Package storage объявляет ошибки слоя хранения, общие для всех реализаций репозитория.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrSlotUnavailable интервал мастера уже занят активной записью.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrEmailTaken пользователь с таким email уже существует.
	ErrEmailTaken = errors.New("email already registered")
	// ErrStatusChanged статус записи изменился после чтения.
	ErrStatusChanged = errors.New("appointment status changed concurrently")
)
