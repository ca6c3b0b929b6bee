package models

import "time"

type News struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Source    string    `json:"source" db:"source"`
	URL       string    `json:"url" db:"url"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Visible   bool      `json:"visible" db:"visible"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectSlot marks how a project is surfaced on the site. The top
// carousel holds at most five projects and the main spot exactly one.
type ProjectSlot string

const (
	SlotBasic ProjectSlot = "BASIC"
	SlotTop   ProjectSlot = "TOP"
	SlotMain  ProjectSlot = "MAIN"
)

const (
	// MaxTopProjects is the capacity of the top carousel.
	MaxTopProjects = 5
	// MaxMainProjects is the capacity of the main spot.
	MaxMainProjects = 1
)

type Project struct {
	ID         string      `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	Category   Category    `json:"category" db:"category"`
	Client     string      `json:"client" db:"client"`
	Department string      `json:"department" db:"department"`
	Date       string      `json:"date" db:"date"`
	Link       string      `json:"link" db:"link"`
	ImageURL   string      `json:"image_url" db:"image_url"`
	Slot       ProjectSlot `json:"slot" db:"slot"`
	IsPosted   bool        `json:"is_posted" db:"is_posted"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

type FAQ struct {
	ID        string    `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	Visible   bool      `json:"visible" db:"visible"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CompanyInfo is a single-row settings table; the row id is pinned so
// the uniqueness is enforced by the schema rather than by convention.
type CompanyInfo struct {
	Address       string    `json:"address" db:"address"`
	Phone         string    `json:"phone" db:"phone"`
	Fax           string    `json:"fax" db:"fax"`
	Email         string    `json:"email" db:"email"`
	Introduction  string    `json:"introduction" db:"introduction"`
	LogoImageURL  string    `json:"logo_image_url" db:"logo_image_url"`
	InstagramLink string    `json:"instagram_link" db:"instagram_link"`
	YoutubeLink   string    `json:"youtube_link" db:"youtube_link"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
