package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *zap.Logger
}

// NewSendGrid constructs a SendGrid-backed mailer.
func NewSendGrid(apiKey, fromName, fromAddress string, logger *zap.Logger) *SendGridMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
		logger: logger,
	}
}

// Send delivers one email and returns an error on any non-2xx response.
func (m *SendGridMailer) Send(ctx context.Context, email Email) error {
	msg := sgmail.NewSingleEmail(m.from, email.Subject, sgmail.NewEmail("", email.To), email.Text, email.HTML)
	res, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", email.To, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.logger.Warn("sendgrid rejected message",
			zap.String("to", email.To),
			zap.Int("status", res.StatusCode),
		)
		return fmt.Errorf("sendgrid send to %s: status %d", email.To, res.StatusCode)
	}
	return nil
}
