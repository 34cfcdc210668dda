// Package sender превращает заявки с контактной формы из очереди в письма.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/smtp"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// ErrInvalidMessage тело сообщения из очереди не разбирается.
var ErrInvalidMessage = errors.New("invalid contact message")

// Service отправляет письма через SMTP.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleContact разбирает models.ContactMessage и отправляет письмо на
// TargetEmail. Reply-To указывает на адрес автора заявки.
func (s *Service) HandleContact(ctx context.Context, body []byte) error {
	const op = "sender.HandleContact"

	var message models.ContactMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidMessage, err)
	}
	if message.TargetEmail == "" {
		return fmt.Errorf("%s: %w: empty target email", op, ErrInvalidMessage)
	}

	subject := fmt.Sprintf("[%s] New contact request from %s", message.ContactType, message.Name)
	if err := s.send(ctx, message.TargetEmail, message.Email, subject, contactBody(message)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("contact email sent",
		slog.String("id", message.ID),
		slog.String("contact_type", message.ContactType),
	)
	return nil
}

func contactBody(m models.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Contact type: %s\r\n", m.ContactType)
	fmt.Fprintf(&b, "Name: %s\r\n", m.Name)
	fmt.Fprintf(&b, "Email: %s\r\n", m.Email)
	if m.Company != "" {
		fmt.Fprintf(&b, "Company: %s\r\n", m.Company)
	}
	if m.Employees != "" {
		fmt.Fprintf(&b, "Employees: %s\r\n", m.Employees)
	}
	fmt.Fprintf(&b, "Submission: %s\r\n\r\n", m.ID)
	b.WriteString(m.Message)
	return b.String()
}

// headerValue убирает переводы строк, чтобы пользовательский ввод
// не добавлял заголовки.
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func (s *Service) send(ctx context.Context, to, replyTo, subject, bodyText string) error {
	from := s.transport.Sender()
	headers := []string{
		"From: " + from,
		"To: " + headerValue(to),
	}
	if replyTo != "" {
		headers = append(headers, "Reply-To: "+headerValue(replyTo))
	}
	headers = append(headers,
		"Subject: "+headerValue(subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	)
	msg := strings.Join(headers, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	if err := client.Rcpt(to); err != nil {
		s.log.Error("failed to set RCPT TO", slog.String("recipient", to), sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}
	return nil
}
