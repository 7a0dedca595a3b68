package service

import (
	"context"
	"fmt"

	"appliance-rental-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    sendGridClient
	fromEmail string
	fromName  string
}

// NewEmailService sends through SendGrid. With an empty API key mails are
// only logged.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return &logEmailService{}
	}
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "to", toEmail, "subject", subject)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", toEmail)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type logEmailService struct{}

func (logEmailService) Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	logger.InfoContext(ctx, "Email (not sent, SendGrid disabled)", "to", toEmail, "subject", subject, "body", plainText)
	return nil
}
