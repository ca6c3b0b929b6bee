package models

import "time"

// Notification is created once per triggering inquiry and is immutable
// after creation.
type Notification struct {
	ID        string    `json:"id" db:"id"`
	RequestID string    `json:"request_id" db:"request_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserNotification is the per-recipient fan-out record, one row per
// (recipient, notification) pair written at broadcast time.
type UserNotification struct {
	UserID         string    `json:"user_id" db:"user_id"`
	NotificationID string    `json:"notification_id" db:"notification_id"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
