// Package jwt выпускает и проверяет короткоживущие токены state для
// OAuth-входа через Patreon.
//
// Токен подписывается HS256 и несет путь, на который нужно вернуть
// пользователя после входа.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "awfixer-portal/oauth-state"

// ErrInvalidState токен state поврежден, просрочен или подписан другим ключом.
var ErrInvalidState = errors.New("invalid oauth state")

// StateClaims данные, хранящиеся в токене state.
type StateClaims struct {
	ReturnTo string `json:"return_to"`
	jwt.RegisteredClaims
}

// StateMaker выпускает и проверяет токены state.
type StateMaker struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// NewStateMaker создает StateMaker на основе секретного ключа и TTL.
func NewStateMaker(secretKey string, ttl time.Duration) *StateMaker {
	return &StateMaker{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
	}
}

// Generate создает токен state с путем возврата returnTo.
func (m *StateMaker) Generate(returnTo string) (string, error) {
	const op = "jwt.Generate"

	if len(m.secretKey) == 0 {
		return "", fmt.Errorf("%s: empty secret key", op)
	}
	now := time.Now()
	claims := StateClaims{
		ReturnTo: returnTo,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Parse проверяет подпись, издателя и срок действия токена.
func (m *StateMaker) Parse(tokenStr string) (*StateClaims, error) {
	const op = "jwt.Parse"

	token, err := jwt.ParseWithClaims(tokenStr, &StateClaims{}, func(_ *jwt.Token) (any, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidState, err)
	}
	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidState)
	}
	return claims, nil
}
