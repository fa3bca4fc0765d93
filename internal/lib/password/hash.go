// Package password реализует хеширование и проверку паролей на bcrypt.
//
// Сравнение выполняется bcrypt за постоянное время. Для несуществующих
// пользователей используется CompareDummy, чтобы время ответа не выдавало,
// зарегистрирован ли email.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes предел bcrypt: байты сверх него не участвуют в хэше.
const MaxBytes = 72

var (
	// ErrMismatch пароль не соответствует хэшу.
	ErrMismatch = errors.New("password does not match")
	// ErrTooLong пароль длиннее MaxBytes байт.
	ErrTooLong = errors.New("password is longer than 72 bytes")
)

// dummyHash хэш случайной строки той же стоимости, что и боевые хэши.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("barbershop-dummy-password"), bcrypt.DefaultCost)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	if len(password) > MaxBytes {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil при совпадении, ErrMismatch при неверном пароле
// и обёрнутую ошибку bcrypt, если хэш испорчен.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// CompareDummy тратит столько же времени, сколько CompareHash, и всегда возвращает ErrMismatch.
func CompareDummy(externalPassword string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(externalPassword))
	return ErrMismatch
}
