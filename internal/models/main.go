// Package models defines the core data structures for menu categories,
// flavors and settings.
package models

import "errors"

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when a category key is already taken.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidInput is returned when a required form field is empty or malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultGroup is the menu group every category belongs to unless stated otherwise.
const DefaultGroup = "Soğuk İçecekler"

// AnnouncementKey is the settings key holding the public banner text.
const AnnouncementKey = "announcement"

// Category is a menu group such as "Milkshake" with a price and an image.
type Category struct {
	// ID is the database identifier.
	ID int64 `db:"id" json:"id"`
	// Key is the unique slug of the category.
	Key string `db:"slug" json:"key"`
	// Group is the menu section the category is listed under.
	Group string `db:"group_name" json:"group"`
	// Title is the display name.
	Title string `db:"title" json:"title"`
	// Price is the unit price in the configured currency.
	Price float64 `db:"price" json:"price"`
	// Img is the image reference shown on the menu card.
	Img string `db:"img" json:"img"`
	// Note is an optional free-text remark.
	Note string `db:"note" json:"note"`
	// SortOrder positions the category on the menu; ties fall back to ID.
	SortOrder int `db:"sort_order" json:"sort_order"`
}

// Flavor is a named variant belonging to exactly one Category.
type Flavor struct {
	ID         int64  `db:"id" json:"id"`
	CategoryID int64  `db:"category_id" json:"category_id"`
	Name       string `db:"name" json:"name"`
}

// MenuCategory is the public projection of a category with its flavor names.
type MenuCategory struct {
	ID    int64    `json:"id"`
	Key   string   `json:"key"`
	Title string   `json:"title"`
	Img   string   `json:"img"`
	Price string   `json:"price"`
	Note  string   `json:"note,omitempty"`
	Items []string `json:"items"`
}

// CategoryForm carries raw admin form input for creating or updating a category.
// Price is kept as submitted and parsed by the service.
type CategoryForm struct {
	Key   string
	Title string
	Img   string
	Price string
	Note  string
}

// Counts summarises the menu size for the admin dashboard.
type Counts struct {
	Categories int `db:"categories" json:"categories"`
	Flavors    int `db:"flavors" json:"flavors"`
}
