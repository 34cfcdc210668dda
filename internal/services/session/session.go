// Package session связывает cookie аккаунта с данными провайдера подписки.
//
// Service декодирует cookie, получает токен доступа и запрашивает у Patreon
// данные пользователя и подписки. Результат нигде не сохраняется:
// подписка пересчитывается при каждом запросе.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/accountcookie"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	"github.com/magabrotheeeer/awfixer-portal/internal/patreon"
)

// Сообщения об ошибках, которые видит пользователь.
const (
	MsgNoAccountData      = "No account data found"
	MsgInvalidAccountData = "Invalid account data"
	MsgUpstreamFailure    = "Failed to fetch subscription data"
)

// Provider описывает провайдера данных о подписке.
type Provider interface {
	Identity(ctx context.Context, accessToken string) (*patreon.Identity, error)
}

// Service реализует мост между cookie аккаунта и провайдером подписки.
type Service struct {
	provider   Provider
	cookieName string
	log        *slog.Logger
}

// New создает новый Service.
func New(log *slog.Logger, provider Provider, cookieName string) *Service {
	return &Service{
		provider:   provider,
		cookieName: cookieName,
		log:        log,
	}
}

// CookieName возвращает имя cookie аккаунта.
func (s *Service) CookieName() string {
	return s.cookieName
}

// Account декодирует cookie аккаунта из запроса.
// Возвращает accountcookie.ErrNoAccountData или accountcookie.ErrInvalidAccountData.
func (s *Service) Account(r *http.Request) (*models.Account, error) {
	return accountcookie.Read(r, s.cookieName)
}

// Fetch запрашивает у провайдера данные по cookie запроса.
// Ошибки провайдера оборачивают patreon.ErrUpstream.
func (s *Service) Fetch(r *http.Request) (*patreon.Identity, error) {
	const op = "services.session.Fetch"
	log := s.log.With(slog.String("op", op))

	acc, err := s.Account(r)
	if err != nil {
		log.Debug("account cookie rejected", sl.Err(err))
		return nil, err
	}

	identity, err := s.provider.Identity(r.Context(), acc.AccessToken)
	if err != nil {
		log.Error("failed to fetch identity from provider", sl.Err(err))
		return nil, err
	}
	return identity, nil
}

// Subscription возвращает исходный ответ провайдера о подписке.
func (s *Service) Subscription(r *http.Request) (json.RawMessage, error) {
	identity, err := s.Fetch(r)
	if err != nil {
		return nil, err
	}
	return identity.Raw, nil
}

// Resolve строит сессию для шлюза доступа.
// Отсутствие cookie дает анонимную сессию, остальные ошибки попадают в Session.Error.
func (s *Service) Resolve(r *http.Request) models.Session {
	identity, err := s.Fetch(r)
	if err != nil {
		if errors.Is(err, accountcookie.ErrNoAccountData) {
			return models.Session{}
		}
		return models.Session{Error: ErrorMessage(err)}
	}

	user := identity.User
	sub := identity.Subscription
	return models.Session{User: &user, Subscription: &sub}
}

// ErrorMessage возвращает сообщение для пользователя по ошибке моста.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, accountcookie.ErrNoAccountData):
		return MsgNoAccountData
	case errors.Is(err, accountcookie.ErrInvalidAccountData):
		return MsgInvalidAccountData
	default:
		return MsgUpstreamFailure
	}
}

// StatusCode возвращает HTTP-статус по ошибке моста.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, accountcookie.ErrNoAccountData):
		return http.StatusUnauthorized
	case errors.Is(err, accountcookie.ErrInvalidAccountData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
