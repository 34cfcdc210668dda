// Package discord проверяет участие пользователя в гильдии Discord.
package discord

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/metrics"
)

var (
	// ErrUpstream ошибка при обращении к Discord.
	ErrUpstream = errors.New("discord upstream error")
	// ErrUnauthorized Discord отклонил токен доступа.
	ErrUnauthorized = errors.New("discord token rejected")
)

const providerName = "discord"

// Membership участие пользователя в гильдии.
type Membership struct {
	Member   bool     `json:"member"`
	UserID   string   `json:"userId,omitempty"`
	Username string   `json:"username,omitempty"`
	Nick     string   `json:"nick,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	JoinedAt string   `json:"joinedAt,omitempty"`
}

type guildMember struct {
	Nick     *string  `json:"nick"`
	Roles    []string `json:"roles"`
	JoinedAt string   `json:"joined_at"`
	User     struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// Cache описывает кеш результатов проверки.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Config параметры клиента.
type Config struct {
	BaseURL  string
	GuildID  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client клиент Discord API.
type Client struct {
	baseURL    string
	guildID    string
	cacheTTL   time.Duration
	cache      Cache
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient создает клиент. cache может быть nil.
func NewClient(log *slog.Logger, cfg Config, cache Cache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		guildID:    cfg.GuildID,
		cacheTTL:   cfg.CacheTTL,
		cache:      cache,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Membership проверяет, состоит ли владелец токена в настроенной гильдии.
func (c *Client) Membership(ctx context.Context, accessToken string) (*Membership, error) {
	const op = "discord.Membership"
	log := c.log.With(slog.String("op", op))

	key := cacheKey(c.guildID, accessToken)
	if c.cache != nil {
		var cached Membership
		found, err := c.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.CacheLookups.WithLabelValues(providerName, "error").Inc()
			log.Warn("failed to read membership from cache", sl.Err(err))
		case found:
			metrics.CacheLookups.WithLabelValues(providerName, "hit").Inc()
			return &cached, nil
		default:
			metrics.CacheLookups.WithLabelValues(providerName, "miss").Inc()
		}
	}

	m, err := c.fetch(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, m, c.cacheTTL); err != nil {
			log.Warn("failed to cache membership", sl.Err(err))
		}
	}
	return m, nil
}

func (c *Client) fetch(ctx context.Context, accessToken string) (*Membership, error) {
	url := fmt.Sprintf("%s/users/@me/guilds/%s/member", c.baseURL, c.guildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeOK).Inc()
		return &Membership{Member: false}, nil
	case http.StatusUnauthorized:
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, ErrUnauthorized
	default:
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: unexpected status: %s", ErrUpstream, resp.Status)
	}

	var gm guildMember
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&gm); err != nil {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: decode member: %v", ErrUpstream, err)
	}
	metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeOK).Inc()

	m := &Membership{
		Member:   true,
		UserID:   gm.User.ID,
		Username: gm.User.Username,
		Roles:    gm.Roles,
		JoinedAt: gm.JoinedAt,
	}
	if gm.Nick != nil {
		m.Nick = *gm.Nick
	}
	return m, nil
}

// cacheKey не содержит сам токен.
func cacheKey(guildID, accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return "discord:member:" + guildID + ":" + hex.EncodeToString(sum[:])
}
