package patreon

import (
	"encoding/json"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// identityDocument ответ /api/oauth2/v2/identity в формате JSON:API.
type identityDocument struct {
	Data struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Attributes struct {
			FullName string `json:"full_name"`
			Email    string `json:"email"`
		} `json:"attributes"`
	} `json:"data"`
	Included []resource `json:"included"`
}

type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    json.RawMessage         `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type resourceID struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// relationship.Data бывает как объектом, так и массивом.
type relationship struct {
	Data json.RawMessage `json:"data"`
}

func (r relationship) ids() []resourceID {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	var many []resourceID
	if err := json.Unmarshal(r.Data, &many); err == nil {
		return many
	}
	var one resourceID
	if err := json.Unmarshal(r.Data, &one); err == nil && one.ID != "" {
		return []resourceID{one}
	}
	return nil
}

type memberAttributes struct {
	PatronStatus     *string `json:"patron_status"`
	LastChargeStatus *string `json:"last_charge_status"`
}

type tierAttributes struct {
	Title       string `json:"title"`
	AmountCents int    `json:"amount_cents"`
}

// Identity результат запроса identity: исходный ответ провайдера
// и вычисленные из него пользователь и подписка.
type Identity struct {
	Raw          json.RawMessage
	User         models.User
	Subscription models.Subscription
}

// Token ответ OAuth-эндпоинта обмена кода.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}
