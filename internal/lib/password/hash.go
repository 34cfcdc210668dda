// Package password хеширует и проверяет секреты (токен администратора)
// с помощью bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMismatch секрет не соответствует хешу.
	ErrMismatch = errors.New("secret does not match")
	// ErrNoHash хеш не задан, проверка всегда неуспешна.
	ErrNoHash = errors.New("hash is not configured")
)

// GetHash возвращает bcrypt-хеш секрета.
func GetHash(secret string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt-хеш с переданным секретом.
// Возвращает nil при совпадении, ErrMismatch при несовпадении.
func CompareHash(hash, secret string) error {
	const op = "password.CompareHash"
	if hash == "" {
		return fmt.Errorf("%s: %w", op, ErrNoHash)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
