// Package contact проверяет заявки с контактной формы и передает их
// в очередь отправки писем.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/validation"
	"github.com/magabrotheeeer/awfixer-portal/internal/metrics"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	"github.com/magabrotheeeer/awfixer-portal/internal/turnstile"
)

var (
	// ErrCaptchaFailed токен Turnstile не прошел проверку.
	ErrCaptchaFailed = errors.New("captcha verification failed")
	// ErrCaptchaUnavailable сервис проверки токена недоступен.
	ErrCaptchaUnavailable = errors.New("captcha verification unavailable")
	// ErrDelivery заявку не удалось передать на отправку.
	ErrDelivery = errors.New("failed to deliver contact submission")
)

// SuccessMessage текст успешного ответа.
const SuccessMessage = "Thank you for contacting us. We will get back to you soon."

// Verifier проверяет токен Turnstile.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*turnstile.Result, error)
}

// Publisher передает сообщение на отправку.
type Publisher interface {
	Publish(ctx context.Context, messageID string, message any) error
}

// Options настройки приема заявок.
type Options struct {
	// Recipients адреса, на которые разрешено отправлять заявки.
	Recipients []string
	// RequireTurnstile требует токен Turnstile в каждой заявке.
	RequireTurnstile bool
}

// Result ответ на принятую заявку.
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ContactType string `json:"contactType"`
	ID          string `json:"id"`
}

// Service принимает заявки.
type Service struct {
	log        *slog.Logger
	validate   *validator.Validate
	recipients map[string]struct{}
	verifier   Verifier
	publisher  Publisher
	captcha    bool
}

// New создает Service. verifier может быть nil, тогда необязательный токен
// Turnstile не проверяется. При RequireTurnstile без verifier все заявки
// отклоняются с ErrCaptchaUnavailable.
func New(log *slog.Logger, publisher Publisher, verifier Verifier, opts Options) *Service {
	recipients := make(map[string]struct{}, len(opts.Recipients))
	for _, r := range opts.Recipients {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			recipients[r] = struct{}{}
		}
	}
	return &Service{
		log:        log,
		validate:   validation.New(),
		recipients: recipients,
		verifier:   verifier,
		publisher:  publisher,
		captcha:    opts.RequireTurnstile,
	}
}

// Validate проверяет схему заявки и список разрешенных получателей.
// Длина текстовых полей считается без пробелов по краям.
// Возвращает *validation.Error с сообщениями по полям.
func (s *Service) Validate(sub models.ContactSubmission) error {
	sub = normalize(sub)
	err := validation.Struct(s.validate, sub)
	var verr *validation.Error
	switch {
	case err == nil:
		verr = &validation.Error{}
	case errors.As(err, &verr):
	default:
		return err
	}

	if _, ok := verr.Fields["targetEmail"]; !ok {
		if _, allowed := s.recipients[strings.ToLower(sub.TargetEmail)]; !allowed {
			verr.Add("targetEmail", "is not an allowed recipient")
		}
	}
	if s.captcha && strings.TrimSpace(sub.TurnstileToken) == "" {
		verr.Add("turnstileToken", "is required")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Submit проверяет заявку, токен Turnstile и публикует models.ContactMessage.
// Побочные эффекты выполняются только после успешной валидации.
// Повторных попыток нет: ошибка доставки возвращается вызывающему.
func (s *Service) Submit(ctx context.Context, sub models.ContactSubmission, remoteIP string) (*Result, error) {
	const op = "contact.Submit"

	if err := s.Validate(sub); err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.captcha && s.verifier == nil {
		metrics.ContactSubmissions.WithLabelValues("captcha_failed").Inc()
		s.log.Error("turnstile is required but no verifier is configured", slog.String("op", op))
		return nil, fmt.Errorf("%s: %w", op, ErrCaptchaUnavailable)
	}
	if s.verifier != nil && sub.TurnstileToken != "" {
		if _, err := s.verifier.Verify(ctx, sub.TurnstileToken, remoteIP); err != nil {
			metrics.ContactSubmissions.WithLabelValues("captcha_failed").Inc()
			if errors.Is(err, turnstile.ErrVerificationFailed) {
				return nil, fmt.Errorf("%s: %w", op, ErrCaptchaFailed)
			}
			s.log.Error("turnstile verification error", slog.String("op", op), sl.Err(err))
			return nil, fmt.Errorf("%s: %w: %v", op, ErrCaptchaUnavailable, err)
		}
	}

	sub = normalize(sub)
	msg := models.ContactMessage{
		ID:          uuid.NewString(),
		ContactType: sub.ContactType,
		TargetEmail: sub.TargetEmail,
		Name:        sub.Name,
		Email:       sub.Email,
		Company:     sub.Company,
		Employees:   sub.Employees,
		Message:     sub.Message,
	}
	if err := s.publisher.Publish(ctx, msg.ID, msg); err != nil {
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeError).Inc()
		s.log.Error("failed to publish contact submission", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %v", op, ErrDelivery, err)
	}
	metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeOK).Inc()

	s.log.Info("contact submission accepted",
		slog.String("id", msg.ID),
		slog.String("contact_type", msg.ContactType),
	)
	return &Result{
		Success:     true,
		Message:     SuccessMessage,
		ContactType: sub.ContactType,
		ID:          msg.ID,
	}, nil
}

func normalize(sub models.ContactSubmission) models.ContactSubmission {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Company = strings.TrimSpace(sub.Company)
	sub.Message = strings.TrimSpace(sub.Message)
	return sub
}
