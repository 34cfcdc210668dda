// Package turnstile проверяет токены Cloudflare Turnstile.
package turnstile

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

	"github.com/google/uuid"

	"github.com/magabrotheeeer/awfixer-portal/internal/metrics"
)

var (
	// ErrUpstream ошибка при обращении к сервису проверки.
	ErrUpstream = errors.New("turnstile upstream error")
	// ErrVerificationFailed токен не прошел проверку.
	ErrVerificationFailed = errors.New("turnstile verification failed")
	// ErrNotConfigured секретный ключ не задан.
	ErrNotConfigured = errors.New("turnstile is not configured")
)

const providerName = "turnstile"

// Result ответ siteverify.
type Result struct {
	Success     bool     `json:"success"`
	ErrorCodes  []string `json:"error-codes"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	Action      string   `json:"action,omitempty"`
	CData       string   `json:"cdata,omitempty"`
}

// Client клиент siteverify.
type Client struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

// NewClient создает клиент.
func NewClient(secret, verifyURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		secret:     secret,
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Verify проверяет токен. remoteIP может быть пустым.
// Неуспешная проверка возвращает Result и ошибку ErrVerificationFailed.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (*Result, error) {
	const op = "turnstile.Verify"

	if c.secret == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	form.Set("idempotency_key", uuid.NewString())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w: unexpected status: %s", op, ErrUpstream, resp.Status)
	}

	var result Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&result); err != nil {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUpstream, err)
	}
	metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeOK).Inc()

	if !result.Success {
		return &result, fmt.Errorf("%s: %w: %s", op, ErrVerificationFailed, strings.Join(result.ErrorCodes, ","))
	}
	return &result, nil
}
