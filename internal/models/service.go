package models

import "time"

// BarberService услуга из каталога барбершопа.
type BarberService struct {
	ID       string        // Идентификатор услуги
	Name     string        // Название, например "Мужская стрижка"
	Duration time.Duration // Длительность услуги
	Active   bool          // Доступна ли услуга для записи
}
