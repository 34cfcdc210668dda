// Package patreon реализует клиент API Patreon: обмен OAuth-кода на токен
// и получение данных о пользователе и его членстве в кампании.
//
// Клиент не повторяет запросы: любая ошибка провайдера сразу
// возвращается вызывающему как ErrUpstream.
package patreon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/awfixer-portal/internal/metrics"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// ErrUpstream ошибка при обращении к Patreon.
var ErrUpstream = errors.New("patreon upstream error")

const (
	providerName   = "patreon"
	maxPayloadSize = 1 << 20

	identityPath  = "/api/oauth2/v2/identity"
	tokenPath     = "/api/oauth2/token"
	authorizePath = "/oauth2/authorize"

	identityScopes = "identity identity[email] identity.memberships"
)

// Config параметры клиента.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	CampaignID   string
	Timeout      time.Duration
}

// Client клиент API Patreon.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	redirectURI  string
	campaignID   string
	httpClient   *http.Client
}

// NewClient создаёт новый клиент Patreon.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		campaignID:   cfg.CampaignID,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// AuthorizeURL возвращает адрес страницы авторизации Patreon.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("scope", identityScopes)
	q.Set("state", state)
	return c.baseURL + authorizePath + "?" + q.Encode()
}

// ExchangeCode обменивает OAuth-код на токен доступа.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	const op = "patreon.ExchangeCode"

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%s: %w: decode token: %v", op, ErrUpstream, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%s: %w: empty access token", op, ErrUpstream)
	}
	return &token, nil
}

// Identity запрашивает данные пользователя и его членство по токену доступа.
func (c *Client) Identity(ctx context.Context, accessToken string) (*Identity, error) {
	const op = "patreon.Identity"

	q := url.Values{}
	q.Set("include", "memberships,memberships.currently_entitled_tiers,memberships.campaign")
	q.Set("fields[user]", "full_name,email")
	q.Set("fields[member]", "patron_status,last_charge_status,currently_entitled_amount_cents")
	q.Set("fields[tier]", "title,amount_cents")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+identityPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	identity, err := parseIdentity(body, c.campaignID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return identity, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: unexpected status: %s", ErrUpstream, resp.Status)
	}

	metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeOK).Inc()
	return body, nil
}

// parseIdentity разбирает ответ identity. Если campaignID задан, учитывается
// только членство в этой кампании.
func parseIdentity(body []byte, campaignID string) (*Identity, error) {
	var doc identityDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode identity: %v", ErrUpstream, err)
	}
	if doc.Data.ID == "" {
		return nil, fmt.Errorf("%w: identity without user id", ErrUpstream)
	}

	tiers := make(map[string]tierAttributes)
	for _, res := range doc.Included {
		if res.Type != "tier" {
			continue
		}
		var attrs tierAttributes
		if err := json.Unmarshal(res.Attributes, &attrs); err == nil {
			tiers[res.ID] = attrs
		}
	}

	sub := models.Subscription{Status: models.StatusNone}
	for _, res := range doc.Included {
		if res.Type != "member" {
			continue
		}
		if campaignID != "" && !belongsTo(res, campaignID) {
			continue
		}
		member, err := memberSubscription(res, tiers)
		if err != nil {
			return nil, err
		}
		sub = member
		break
	}

	return &Identity{
		Raw: json.RawMessage(body),
		User: models.User{
			ID:    doc.Data.ID,
			Name:  doc.Data.Attributes.FullName,
			Email: doc.Data.Attributes.Email,
		},
		Subscription: sub,
	}, nil
}

func belongsTo(member resource, campaignID string) bool {
	for _, id := range member.Relationships["campaign"].ids() {
		if id.ID == campaignID {
			return true
		}
	}
	return false
}

func memberSubscription(member resource, tiers map[string]tierAttributes) (models.Subscription, error) {
	var attrs memberAttributes
	if len(member.Attributes) > 0 {
		if err := json.Unmarshal(member.Attributes, &attrs); err != nil {
			return models.Subscription{}, fmt.Errorf("%w: decode member %s: %v", ErrUpstream, member.ID, err)
		}
	}

	sub := models.Subscription{Status: models.StatusNone}
	if attrs.PatronStatus != nil && *attrs.PatronStatus != "" {
		sub.Status = models.SubscriptionStatus(*attrs.PatronStatus)
	}
	sub.IsDelinquent = sub.Status == models.StatusDeclinedPatron ||
		(attrs.LastChargeStatus != nil && strings.EqualFold(*attrs.LastChargeStatus, "Declined"))

	// При нескольких уровнях берём самый дорогой.
	best := -1
	for _, id := range member.Relationships["currently_entitled_tiers"].ids() {
		tier, ok := tiers[id.ID]
		if !ok {
			continue
		}
		if tier.AmountCents > best {
			best = tier.AmountCents
			sub.Tier = tier.Title
		}
	}
	return sub, nil
}
