// Package accountcookie кодирует и декодирует cookie с данными аккаунта.
// Значение cookie: base64 от JSON-объекта models.Account.
package accountcookie

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

var (
	// ErrNoAccountData cookie отсутствует или пустая.
	ErrNoAccountData = errors.New("no account data found")
	// ErrInvalidAccountData значение не является base64 от JSON с accessToken.
	ErrInvalidAccountData = errors.New("invalid account data")
)

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// Read извлекает cookie name из запроса и декодирует её.
func Read(r *http.Request, name string) (*models.Account, error) {
	c, err := r.Cookie(name)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return nil, ErrNoAccountData
	}
	return Decode(c.Value)
}

// Decode декодирует значение cookie. Значение может быть URL-экранировано
// и закодировано любым из вариантов base64.
func Decode(value string) (*models.Account, error) {
	const op = "accountcookie.Decode"

	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrNoAccountData
	}
	if strings.Contains(value, "%") {
		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}
	}

	raw, err := decodeBase64(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidAccountData, err)
	}

	var acc models.Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidAccountData, err)
	}
	if acc.AccessToken == "" {
		return nil, fmt.Errorf("%s: %w: access token is missing", op, ErrInvalidAccountData)
	}
	return &acc, nil
}

func decodeBase64(value string) ([]byte, error) {
	var lastErr error
	for _, enc := range encodings {
		raw, err := enc.DecodeString(value)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Encode кодирует аккаунт в значение cookie.
func Encode(acc models.Account) (string, error) {
	raw, err := json.Marshal(acc)
	if err != nil {
		return "", fmt.Errorf("accountcookie.Encode: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Options параметры выставляемой cookie.
type Options struct {
	Name   string
	Domain string
	TTL    time.Duration
	Secure bool
}

// Write выставляет cookie с аккаунтом.
func Write(w http.ResponseWriter, opts Options, acc models.Account) error {
	value, err := Encode(acc)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(opts.TTL.Seconds()),
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear удаляет cookie с аккаунтом.
func Clear(w http.ResponseWriter, opts Options) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   -1,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
