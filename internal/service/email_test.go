package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSendGrid struct {
	sent     []*mail.SGMailV3
	response *rest.Response
	err      error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return f.response, f.err
}

func TestEmailService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := &fakeSendGrid{response: &rest.Response{StatusCode: 202}}
		svc := &emailService{client: client, fromEmail: "noreply@example.com", fromName: "Rentals"}

		require.NoError(t, svc.Send(ctx, "ann@example.com", "Ann", "Hello", "plain", "<p>html</p>"))
		require.Len(t, client.sent, 1)
		assert.Equal(t, "Hello", client.sent[0].Subject)
		assert.Equal(t, "noreply@example.com", client.sent[0].From.Address)
		assert.Equal(t, "ann@example.com", client.sent[0].Personalizations[0].To[0].Address)
	})

	t.Run("Rejected by provider", func(t *testing.T) {
		client := &fakeSendGrid{response: &rest.Response{StatusCode: 401, Body: "unauthorized"}}
		svc := &emailService{client: client}
		err := svc.Send(ctx, "ann@example.com", "Ann", "Hello", "plain", "")
		assert.ErrorContains(t, err, "status 401")
	})

	t.Run("Transport error", func(t *testing.T) {
		svc := &emailService{client: &fakeSendGrid{err: errors.New("dial tcp: refused")}}
		assert.Error(t, svc.Send(ctx, "ann@example.com", "Ann", "Hello", "plain", ""))
	})

	t.Run("Disabled without API key", func(t *testing.T) {
		svc := NewEmailService("", "noreply@example.com", "Rentals")
		assert.NoError(t, svc.Send(ctx, "ann@example.com", "Ann", "Hello", "plain", ""))
	})
}
