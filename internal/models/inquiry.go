package models

import (
	"strings"
	"time"
)

// RequestState tracks where an inquiry sits in the review flow.
// WAITING is assigned at creation and is never re-entered.
type RequestState string

const (
	StateWaiting    RequestState = "WAITING"
	StateApproved   RequestState = "APPROVED"
	StateRejected   RequestState = "REJECTED"
	StateDiscussing RequestState = "DISCUSSING"
)

// IsAnswerable reports whether a state may be recorded on an answer.
// Any non-blank state except WAITING is accepted.
func (s RequestState) IsAnswerable() bool {
	return strings.TrimSpace(string(s)) != "" && s != StateWaiting
}

// Request is an inquiry submitted through the public contact form.
// Year and Month are captured at creation time and never change;
// they are the bucket keys for period aggregation.
type Request struct {
	ID           string       `json:"id" db:"id"`
	Category     string       `json:"category" db:"category"`
	ProjectName  string       `json:"project_name" db:"project_name"`
	ClientName   string       `json:"client_name" db:"client_name"`
	Organization string       `json:"organization" db:"organization"`
	Contact      string       `json:"contact" db:"contact"`
	Email        string       `json:"email" db:"email"`
	Position     string       `json:"position" db:"position"`
	Description  string       `json:"description" db:"description"`
	FileURLs     []string     `json:"file_urls" db:"file_urls"`
	Year         int          `json:"year" db:"year"`
	Month        int          `json:"month" db:"month"`
	State        RequestState `json:"state" db:"state"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	Answers      []Answer     `json:"answers,omitempty"`
}

// Answer is an append-only audit record; State snapshots the request
// state that was set when the answer was written.
type Answer struct {
	ID        string       `json:"id" db:"id"`
	RequestID string       `json:"request_id" db:"request_id"`
	Text      string       `json:"text" db:"text"`
	State     RequestState `json:"state" db:"state"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
