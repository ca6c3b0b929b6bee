package models

import "time"

// Menu identifies the site section a page view was counted against.
type Menu string

const (
	MenuAll         Menu = "ALL"
	MenuMain        Menu = "MAIN"
	MenuAbout       Menu = "ABOUT"
	MenuArtwork     Menu = "ARTWORK"
	MenuContact     Menu = "CONTACT"
	MenuFAQ         Menu = "FAQ"
	MenuNews        Menu = "NEWS"
	MenuRecruitment Menu = "RECRUITMENT"
)

func IsValidMenu(m Menu) bool {
	switch m {
	case MenuAll, MenuMain, MenuAbout, MenuArtwork, MenuContact, MenuFAQ, MenuNews, MenuRecruitment:
		return true
	}
	return false
}

// Category subdivides the artwork menu; every other menu only carries ALL.
type Category string

const (
	CategoryAll           Category = "ALL"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryDrama         Category = "DRAMA"
	CategoryChannel       Category = "CHANNEL"
	CategoryBranded       Category = "BRANDED"
)

func IsValidCategory(c Category) bool {
	switch c {
	case CategoryAll, CategoryEntertainment, CategoryDrama, CategoryChannel, CategoryBranded:
		return true
	}
	return false
}

// Views is a per-month view counter row, keyed by (year, month, menu,
// category) by convention. The count is only ever incremented.
type Views struct {
	ID        string    `json:"id" db:"id"`
	Year      int       `json:"year" db:"year"`
	Month     int       `json:"month" db:"month"`
	Views     int64     `json:"views" db:"views"`
	Menu      Menu      `json:"menu" db:"menu"`
	Category  Category  `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
