package db

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"

	"github.com/atinyakov/CafeMenu/internal/models"
)

// SeedCategory is one entry of the default menu.
type SeedCategory struct {
	Title   string
	Price   float64
	Img     string
	Flavors []string
}

// DefaultMenu is inserted into an empty database on first start.
var DefaultMenu = []SeedCategory{
	{"Milkshake", 139, "milkshake.jpeg", []string{"çilek", "kavun", "muz", "karamel", "mango", "çikolata"}},
	{"Frappe", 119, "frappe.jpg", []string{"black forest", "strawberry", "affagato", "vanilan supreme"}},
	{"Soğuk Kahve", 129, "soguk_kahve.avif", []string{"latte", "caramel latte", "mocha", "white mocha"}},
	{"Frozen", 129, "frozen.jpg", []string{"karpuz", "kavun", "mango", "elma", "orman meyvesi", "kivi"}},
	{"Cool Lime", 99, "cool_lime.jpg", []string{"çilek", "nane", "elma"}},
	{"Bubble Tea", 149, "bubble_tea.avif", []string{"çilek", "mango", "çikolata", "yaban mersini"}},
}

// Seed inserts DefaultMenu when the categories table is empty and reports
// whether it did. The count and the inserts share one transaction.
func Seed(ctx context.Context, db *sqlx.DB) (bool, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM categories`); err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	insertCategory := tx.Rebind(`
		INSERT INTO categories (slug, group_name, title, price, img, note, sort_order)
		VALUES (?, ?, ?, ?, ?, '', ?)
		RETURNING id`)
	insertFlavor := tx.Rebind(`INSERT INTO flavors (category_id, name) VALUES (?, ?)`)

	for i, c := range DefaultMenu {
		var id int64
		err := tx.QueryRowxContext(ctx, insertCategory,
			slug.Make(c.Title), models.DefaultGroup, c.Title, c.Price, c.Img, i+1,
		).Scan(&id)
		if err != nil {
			return false, fmt.Errorf("insert category %q: %w", c.Title, err)
		}
		for _, name := range c.Flavors {
			if _, err := tx.ExecContext(ctx, insertFlavor, id, name); err != nil {
				return false, fmt.Errorf("insert flavor %q: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
