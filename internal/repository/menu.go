// Package repository provides sqlx-backed persistence for menu categories,
// flavors and settings. Queries are written with ? placeholders and rebound
// for the connected dialect.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/atinyakov/CafeMenu/internal/models"
)

const categoryColumns = `id, slug, group_name, title, price, img, note, sort_order`

// MenuRepository implements category and flavor storage.
type MenuRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewMenuRepository creates a MenuRepository over db.
func NewMenuRepository(db *sqlx.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// ListCategories returns every category ordered by sort_order, then id.
func (r *MenuRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats := []models.Category{}
	err := r.DB.SelectContext(ctx, &cats,
		`SELECT `+categoryColumns+` FROM categories ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	return cats, nil
}

// GetCategory fetches one category. Returns models.ErrNotFound for unknown ids.
func (r *MenuRepository) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.DB.GetContext(ctx, &c,
		r.DB.Rebind(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetCategory: %w", err)
	}
	return &c, nil
}

// KeyExists reports whether a category with the given slug exists.
func (r *MenuRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists,
		r.DB.Rebind(`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = ?)`), key)
	if err != nil {
		return false, fmt.Errorf("KeyExists: %w", err)
	}
	return exists, nil
}

// InsertCategory stores c and sets c.ID. A taken slug yields models.ErrDuplicateKey.
func (r *MenuRepository) InsertCategory(ctx context.Context, c *models.Category) error {
	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(`
		INSERT INTO categories (slug, group_name, title, price, img, note, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		c.Key, c.Group, c.Title, c.Price, c.Img, c.Note, c.SortOrder,
	).Scan(&c.ID)
	if isUniqueViolation(err) {
		return models.ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("InsertCategory: %w", err)
	}
	return nil
}

// UpdateCategory overwrites title, price, image and note of c.ID.
// Returns models.ErrNotFound when no row matched.
func (r *MenuRepository) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		UPDATE categories SET title = ?, price = ?, img = ?, note = ? WHERE id = ?`),
		c.Title, c.Price, c.Img, c.Note, c.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateCategory: %w", err)
	}
	return expectRows(res)
}

// DeleteCategory removes a category; its flavors go with it via ON DELETE CASCADE.
func (r *MenuRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("DeleteCategory: %w", err)
	}
	return expectRows(res)
}

// ListFlavors returns all flavors ordered by id.
func (r *MenuRepository) ListFlavors(ctx context.Context) ([]models.Flavor, error) {
	flavors := []models.Flavor{}
	err := r.DB.SelectContext(ctx, &flavors,
		`SELECT id, category_id, name FROM flavors ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("ListFlavors: %w", err)
	}
	return flavors, nil
}

// FlavorsByCategory returns the flavors of one category ordered by id.
func (r *MenuRepository) FlavorsByCategory(ctx context.Context, categoryID int64) ([]models.Flavor, error) {
	flavors := []models.Flavor{}
	err := r.DB.SelectContext(ctx, &flavors,
		r.DB.Rebind(`SELECT id, category_id, name FROM flavors WHERE category_id = ? ORDER BY id ASC`),
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("FlavorsByCategory: %w", err)
	}
	return flavors, nil
}

// InsertFlavor adds a flavor to a category. A missing category yields models.ErrNotFound.
func (r *MenuRepository) InsertFlavor(ctx context.Context, f *models.Flavor) error {
	err := r.DB.QueryRowxContext(ctx,
		r.DB.Rebind(`INSERT INTO flavors (category_id, name) VALUES (?, ?) RETURNING id`),
		f.CategoryID, f.Name,
	).Scan(&f.ID)
	if isForeignKeyViolation(err) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("InsertFlavor: %w", err)
	}
	return nil
}

// DeleteFlavor removes flavorID only if it belongs to categoryID.
// Returns models.ErrNotFound when nothing matched.
func (r *MenuRepository) DeleteFlavor(ctx context.Context, categoryID, flavorID int64) error {
	res, err := r.DB.ExecContext(ctx,
		r.DB.Rebind(`DELETE FROM flavors WHERE id = ? AND category_id = ?`),
		flavorID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("DeleteFlavor: %w", err)
	}
	return expectRows(res)
}

// Counts returns the number of categories and flavors.
func (r *MenuRepository) Counts(ctx context.Context) (models.Counts, error) {
	var c models.Counts
	err := r.DB.GetContext(ctx, &c, `
		SELECT
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM flavors) AS flavors`)
	if err != nil {
		return models.Counts{}, fmt.Errorf("Counts: %w", err)
	}
	return c, nil
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
