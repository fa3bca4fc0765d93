// Package jwt реализует выпуск и проверку подписанных токенов сессии.
//
// Токен несёт идентификатор пользователя и его роль, подписывается HMAC-SHA256
// и живёт tokenTTL. Токен старше renewAfter считается подлежащим перевыпуску.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// Maker описывает выпуск и разбор токенов сессии.
type Maker interface {
	GenerateToken(userID string, role models.Role) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
	NeedsRenewal(claims *CustomClaims) bool
}

// MakerImpl реализует Maker на общем секретном ключе.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов.
	tokenTTL   time.Duration // Время жизни токена.
	renewAfter time.Duration // Возраст токена, после которого он перевыпускается.
	now        func() time.Time
}

// NewJWTMaker создаёт MakerImpl. renewAfter <= 0 отключает перевыпуск.
func NewJWTMaker(secretKey string, ttl, renewAfter time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		tokenTTL:   ttl,
		renewAfter: renewAfter,
		now:        time.Now,
	}
}
