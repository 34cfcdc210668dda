// Package access реализует шлюз доступа по уровню подписки.
//
// Decide является чистой функцией. Она получает сессию по значению и требования к
// материалу и возвращает ровно одно состояние. Условия проверяются в
// фиксированном порядке, срабатывает первое подходящее:
// loading → error → unauthenticated → subscription_inactive →
// tier_insufficient → authorized.
package access

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/awfixer-portal/internal/metrics"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// State итоговое состояние отображения закрытого материала.
type State string

const (
	StateLoading              State = "loading"
	StateError                State = "error"
	StateUnauthenticated      State = "unauthenticated"
	StateSubscriptionInactive State = "subscription_inactive"
	StateTierInsufficient     State = "tier_insufficient"
	StateAuthorized           State = "authorized"
)

var (
	// ErrSessionLoading сессия еще не получена.
	ErrSessionLoading = errors.New("session is loading")
	// ErrSession при получении сессии произошла ошибка.
	ErrSession = errors.New("session error")
	// ErrAuthenticationRequired пользователь не вошел.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrSubscriptionInactive подписка не активна.
	ErrSubscriptionInactive = errors.New("active subscription required")
	// ErrTierInsufficient уровень подписки не совпадает с требуемым.
	ErrTierInsufficient = errors.New("subscription tier insufficient")
)

// Requirement требования материала к сессии.
// Tier сравнивается с уровнем подписки строго, с учетом регистра.
type Requirement struct {
	Tier          string
	RequireActive bool
}

// Decision результат проверки доступа.
type Decision struct {
	State        State  `json:"state"`
	Message      string `json:"message"`
	RequiredTier string `json:"requiredTier,omitempty"`
	CurrentTier  string `json:"currentTier,omitempty"`
}

// Decide вычисляет состояние доступа для сессии.
//
// Требование уровня подразумевает активную подписку: неактивная подписка
// никогда не открывает материал с уровнем, даже если RequireActive == false.
func Decide(s models.Session, req Requirement) Decision {
	d := decide(s, req)
	metrics.GateDecisions.WithLabelValues(string(d.State)).Inc()
	return d
}

func decide(s models.Session, req Requirement) Decision {
	switch {
	case s.IsLoading:
		return Decision{State: StateLoading, Message: "Loading your account..."}
	case s.Error != "":
		return Decision{State: StateError, Message: s.Error}
	case s.User == nil:
		return Decision{
			State:        StateUnauthenticated,
			Message:      "Please sign in with Patreon to view this content.",
			RequiredTier: req.Tier,
		}
	}

	current := ""
	if s.Subscription != nil {
		current = s.Subscription.Tier
	}

	if (req.RequireActive || req.Tier != "") && !s.Subscription.Active() {
		return Decision{
			State:        StateSubscriptionInactive,
			Message:      "An active Patreon subscription is required to view this content.",
			RequiredTier: req.Tier,
			CurrentTier:  current,
		}
	}

	if req.Tier != "" && req.Tier != current {
		return Decision{
			State:        StateTierInsufficient,
			Message:      "This content requires the " + req.Tier + " tier.",
			RequiredTier: req.Tier,
			CurrentTier:  current,
		}
	}

	return Decision{State: StateAuthorized, RequiredTier: req.Tier, CurrentTier: current}
}

// Allowed сообщает, можно ли показывать материал.
func (d Decision) Allowed() bool {
	return d.State == StateAuthorized
}

// Err возвращает ошибку, соответствующую состоянию, или nil для authorized.
func (d Decision) Err() error {
	switch d.State {
	case StateLoading:
		return ErrSessionLoading
	case StateError:
		return ErrSession
	case StateUnauthenticated:
		return ErrAuthenticationRequired
	case StateSubscriptionInactive:
		return ErrSubscriptionInactive
	case StateTierInsufficient:
		return ErrTierInsufficient
	default:
		return nil
	}
}

// HTTPStatus возвращает HTTP-статус для состояния.
func (d Decision) HTTPStatus() int {
	switch d.State {
	case StateLoading:
		return http.StatusServiceUnavailable
	case StateError:
		return http.StatusBadGateway
	case StateUnauthenticated:
		return http.StatusUnauthorized
	case StateSubscriptionInactive, StateTierInsufficient:
		return http.StatusForbidden
	default:
		return http.StatusOK
	}
}
