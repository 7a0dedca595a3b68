package postgres

import (
	"context"
	"encoding/json"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID, "title", n.Title)

	if n.Attributes == nil {
		n.Attributes = map[string]string{}
	}
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "reason", "failed to marshal attributes")
		return err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedOn = time.Now().UTC()

	query := `INSERT INTO notifications (id, user_id, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID)
	_, err = r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.IsRead, attrs, n.CreatedOn)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return err
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT id, user_id, title, message, is_read, attributes, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

// MarkAsRead only touches notifications owned by userID.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result, "notification", id)
}
