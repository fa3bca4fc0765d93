package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// ErrInvalidToken возвращается для любого неподписанного, просроченного или испорченного токена.
var ErrInvalidToken = errors.New("invalid session token")

// CustomClaims данные, которые хранятся в токене сессии.
type CustomClaims struct {
	UserID               string      `json:"id"`   // Идентификатор пользователя
	Role                 models.Role `json:"role"` // Роль пользователя
	jwt.RegisteredClaims             // ExpiresAt, IssuedAt и пр.
}

// GenerateToken создаёт токен с id и ролью пользователя.
func (j *MakerImpl) GenerateToken(userID string, role models.Role) (string, error) {
	const op = "jwt.GenerateToken"
	now := j.now()
	claims := CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ParseToken проверяет подпись, алгоритм и срок действия токена.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}

// NeedsRenewal сообщает, пора ли выдать новый токен вместо claims.
func (j *MakerImpl) NeedsRenewal(claims *CustomClaims) bool {
	if j.renewAfter <= 0 || claims == nil || claims.IssuedAt == nil {
		return false
	}
	return j.now().Sub(claims.IssuedAt.Time) >= j.renewAfter
}
