package service

import (
	"context"
	"fmt"

	"appliance-rental-backend/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type pushService struct {
	client messagingClient
}

// NewPushService connects to Firebase Cloud Messaging. An empty credentials
// file falls back to application default credentials.
func NewPushService(ctx context.Context, projectID, credentialsFile string) (PushService, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return &pushService{client: client}, nil
}

func (s *pushService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	}
	logger.ExternalServiceCall("fcm", "Send", "title", title)
	id, err := s.client.Send(ctx, msg)
	logger.ExternalServiceResult("fcm", "Send", err, "messageID", id)
	return err
}

type noopPushService struct{}

// NewNoopPushService is used when push delivery is disabled.
func NewNoopPushService() PushService {
	return noopPushService{}
}

func (noopPushService) Send(context.Context, string, string, string, map[string]string) error {
	return nil
}
