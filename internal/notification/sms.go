// internal/notification/sms.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
)

// TwilioSender sends text messages through Twilio
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) SendSMS(ctx context.Context, msg *SMSMessage) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.from)
	params.SetBody(msg.Message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS via Twilio: %w", err)
	}
	return nil
}

// MockSMSSender records messages instead of sending them
type MockSMSSender struct {
	mu   sync.Mutex
	Sent []*SMSMessage
	log  *logger.Logger
}

func NewMockSMSSender(log *logger.Logger) *MockSMSSender {
	return &MockSMSSender{log: log}
}

func (m *MockSMSSender) SendSMS(ctx context.Context, msg *SMSMessage) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	m.mu.Unlock()
	m.log.Debug("mock sms", "to", msg.To)
	return nil
}

func (m *MockSMSSender) Messages() []*SMSMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*SMSMessage(nil), m.Sent...)
}

// SMSNotifier texts recipients that have a phone number. Only accepted
// matches are sent by SMS.
type SMSNotifier struct {
	sender SMSSender
	dir    Directory
}

func NewSMSNotifier(sender SMSSender, dir Directory) *SMSNotifier {
	return &SMSNotifier{sender: sender, dir: dir}
}

func (n *SMSNotifier) Notify(ctx context.Context, event Event) error {
	if event.Type != EventMatchAccepted {
		return nil
	}

	var errs []error
	for _, recipientID := range event.Recipients() {
		recipient, other, err := resolvePair(ctx, n.dir, event, recipientID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !recipient.Phone.Valid || recipient.Phone.String == "" {
			continue
		}

		text, err := renderSMS(event.Type, templateData{
			Name:      displayName(recipient.DisplayName),
			OtherName: displayName(other.DisplayName),
			Score:     int(event.Score*100 + 0.5),
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := n.sender.SendSMS(ctx, &SMSMessage{To: recipient.Phone.String, Message: text}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
