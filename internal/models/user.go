package models

import "time"

// AdminUser is a back-office account. Only approved accounts may log
// in, and only approved accounts receive inquiry notifications.
type AdminUser struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Approved     bool      `json:"approved" db:"approved"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
