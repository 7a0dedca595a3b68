package service

import (
	"context"
	"fmt"
	"html"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Notification, int32, error) {
	if err := requireUser(actor); err != nil {
		return nil, 0, err
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.noteRepo.List(ctx, actor.UserID, pageSize, domain.Offset(page, pageSize))
}

func (s *notificationService) MarkAsRead(ctx context.Context, actor domain.Actor, notificationID string) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	return s.noteRepo.MarkAsRead(ctx, notificationID, actor.UserID)
}

type notifier struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	emailSvc EmailService
	pushSvc  PushService
}

func NewNotifier(noteRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc EmailService, pushSvc PushService) Notifier {
	return &notifier{noteRepo: noteRepo, userRepo: userRepo, emailSvc: emailSvc, pushSvc: pushSvc}
}

// Notify stores an in-app notification, then emails and pushes it.
func (n *notifier) Notify(ctx context.Context, userID, title, message string, attrs map[string]string) {
	note := &domain.Notification{UserID: userID, Title: title, Message: message, Attributes: attrs}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to store notification", "userID", userID, "title", title, "error", err)
	}

	user, err := n.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load notification recipient", "userID", userID, "error", err)
		return
	}

	htmlBody := fmt.Sprintf("<p>Hello %s,</p><p>%s</p>", html.EscapeString(user.Name), html.EscapeString(message))
	if err := n.emailSvc.Send(ctx, user.Email, user.Name, title, message, htmlBody); err != nil {
		logger.Warn("Failed to send notification email", "userID", userID, "error", err)
	}

	if user.PushToken != "" {
		if err := n.pushSvc.Send(ctx, user.PushToken, title, message, attrs); err != nil {
			logger.Warn("Failed to send push notification", "userID", userID, "error", err)
		}
	}
}
