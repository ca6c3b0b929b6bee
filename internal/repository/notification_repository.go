package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/studiohaven/cms-api/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, requestID string) (models.Notification, error)
	// CreateWithRecipients writes the notification and its per-user
	// fan-out rows in one transaction, so a crash cannot leave a
	// notification without recipients.
	CreateWithRecipients(ctx context.Context, requestID string, userIDs []string) (models.Notification, error)
	CreateUserNotification(ctx context.Context, userID, notificationID string) error
	ListAll(ctx context.Context) ([]models.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]models.UserNotification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	DeleteUserNotification(ctx context.Context, userID, notificationID string) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, requestID string) (models.Notification, error) {
	const query = `
		INSERT INTO notifications (request_id)
		VALUES ($1)
		RETURNING id, request_id, created_at`

	var notif models.Notification
	err := r.db.QueryRowContext(ctx, query, requestID).
		Scan(&notif.ID, &notif.RequestID, &notif.CreatedAt)
	if err != nil {
		return models.Notification{}, errors.Wrap(err, "insert notification")
	}
	return notif, nil
}

func (r *notificationRepository) CreateWithRecipients(ctx context.Context, requestID string, userIDs []string) (models.Notification, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Notification{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	const insertNotif = `
		INSERT INTO notifications (request_id)
		VALUES ($1)
		RETURNING id, request_id, created_at`

	var notif models.Notification
	if err := tx.QueryRowContext(ctx, insertNotif, requestID).
		Scan(&notif.ID, &notif.RequestID, &notif.CreatedAt); err != nil {
		return models.Notification{}, errors.Wrap(err, "insert notification")
	}

	const insertUserNotif = `
		INSERT INTO user_notifications (user_id, notification_id, is_read)
		VALUES ($1, $2, FALSE)`

	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, insertUserNotif, userID, notif.ID); err != nil {
			return models.Notification{}, errors.Wrapf(err, "insert user notification for %s", userID)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Notification{}, errors.Wrap(err, "commit")
	}
	return notif, nil
}

func (r *notificationRepository) CreateUserNotification(ctx context.Context, userID, notificationID string) error {
	const query = `
		INSERT INTO user_notifications (user_id, notification_id, is_read)
		VALUES ($1, $2, FALSE)`
	_, err := r.db.ExecContext(ctx, query, userID, notificationID)
	return errors.Wrap(err, "insert user notification")
}

func (r *notificationRepository) ListAll(ctx context.Context) ([]models.Notification, error) {
	const query = `
		SELECT id, request_id, created_at
		FROM notifications
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var notif models.Notification
		if err := rows.Scan(&notif.ID, &notif.RequestID, &notif.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, notif)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID string) ([]models.UserNotification, error) {
	const query = `
		SELECT user_id, notification_id, is_read, created_at
		FROM user_notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.UserNotification{}
	for rows.Next() {
		var record models.UserNotification
		if err := rows.Scan(&record.UserID, &record.NotificationID, &record.IsRead, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	const query = `
		UPDATE user_notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND notification_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, notificationID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) DeleteUserNotification(ctx context.Context, userID, notificationID string) error {
	const query = `
		DELETE FROM user_notifications
		WHERE user_id = $1 AND notification_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, notificationID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
