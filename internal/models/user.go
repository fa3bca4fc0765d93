// Package models содержит доменные модели сервиса записи: пользователей с ролями,
// записи к мастерам, каталог услуг и события о записях.
package models

import "strings"

// Role роль пользователя, зашитая в токен сессии.
type Role string

const (
	// RoleClient клиент барбершопа
	RoleClient Role = "CLIENT"
	// RoleBarber мастер, к которому записываются клиенты
	RoleBarber Role = "BARBER"
	// RoleAdmin администратор
	RoleAdmin Role = "ADMIN"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleBarber, RoleAdmin:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя так, как он хранится в базе.
type User struct {
	UUID         string // Уникальный идентификатор пользователя
	Email        string // Электронная почта (уникальная, в нижнем регистре)
	PasswordHash string // bcrypt-хэш пароля
	Name         string // Отображаемое имя
	Role         Role   // Роль пользователя
}

// Identity аутентифицированный пользователь без учётных данных.
// Именно она возвращается наружу после проверки пароля.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role Role   `json:"role"`
}

// Identity возвращает публичную часть пользователя, без хэша пароля.
func (u *User) Identity() Identity {
	return Identity{ID: u.UUID, Name: u.Name, Role: u.Role}
}

// NormalizeEmail приводит email к виду, в котором он хранится в базе.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
