// internal/notification/email.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
)

// SendGridSender sends email through the SendGrid API
type SendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: "Kiekky",
	}
}

func (s *SendGridSender) SendEmail(ctx context.Context, msg *EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail(msg.Name, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}
	return nil
}

// MockEmailSender records messages instead of sending them
type MockEmailSender struct {
	mu   sync.Mutex
	Sent []*EmailMessage
	log  *logger.Logger
}

func NewMockEmailSender(log *logger.Logger) *MockEmailSender {
	return &MockEmailSender{log: log}
}

func (m *MockEmailSender) SendEmail(ctx context.Context, msg *EmailMessage) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	m.mu.Unlock()
	m.log.Debug("mock email", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *MockEmailSender) Messages() []*EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*EmailMessage(nil), m.Sent...)
}

// EmailNotifier emails every recipient of an event that has an address
type EmailNotifier struct {
	sender EmailSender
	dir    Directory
}

func NewEmailNotifier(sender EmailSender, dir Directory) *EmailNotifier {
	return &EmailNotifier{sender: sender, dir: dir}
}

func (n *EmailNotifier) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, recipientID := range event.Recipients() {
		if err := n.notifyOne(ctx, event, recipientID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *EmailNotifier) notifyOne(ctx context.Context, event Event, recipientID int64) error {
	recipient, other, err := resolvePair(ctx, n.dir, event, recipientID)
	if err != nil {
		return err
	}
	if !recipient.Email.Valid || recipient.Email.String == "" {
		return nil
	}

	data := templateData{
		Name:      displayName(recipient.DisplayName),
		OtherName: displayName(other.DisplayName),
		Score:     int(event.Score*100 + 0.5),
	}
	subject, body, err := renderEmail(event.Type, data)
	if err != nil {
		return err
	}

	return n.sender.SendEmail(ctx, &EmailMessage{
		To:      recipient.Email.String,
		Name:    recipient.DisplayName,
		Subject: subject,
		Body:    body,
		HTML:    "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n\n", "</p><p>") + "</p>",
	})
}
