// Package service provides the menu, settings and admin authentication
// business logic, delegating persistence to repository interfaces.
package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/atinyakov/CafeMenu/internal/models"
)

// DefaultImage is used when a category is created without an image.
const DefaultImage = "soguk_icecek.jpg"

// newCategorySortOrder places admin-created categories after the seeded ones.
const newCategorySortOrder = 999

// MenuRepository defines the persistence operations required by MenuService.
type MenuRepository interface {
	// ListCategories returns all categories in display order.
	ListCategories(ctx context.Context) ([]models.Category, error)
	// GetCategory returns models.ErrNotFound for unknown ids.
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	// KeyExists reports whether a category slug is taken.
	KeyExists(ctx context.Context, key string) (bool, error)
	// InsertCategory stores a category and fills in its ID.
	InsertCategory(ctx context.Context, c *models.Category) error
	// UpdateCategory overwrites the editable fields of c.ID.
	UpdateCategory(ctx context.Context, c *models.Category) error
	// DeleteCategory removes a category and, by cascade, its flavors.
	DeleteCategory(ctx context.Context, id int64) error
	// ListFlavors returns every flavor in insertion order.
	ListFlavors(ctx context.Context) ([]models.Flavor, error)
	// FlavorsByCategory returns one category's flavors in insertion order.
	FlavorsByCategory(ctx context.Context, categoryID int64) ([]models.Flavor, error)
	// InsertFlavor stores a flavor and fills in its ID.
	InsertFlavor(ctx context.Context, f *models.Flavor) error
	// DeleteFlavor removes a flavor only if it belongs to categoryID.
	DeleteFlavor(ctx context.Context, categoryID, flavorID int64) error
	// Counts returns category and flavor totals.
	Counts(ctx context.Context) (models.Counts, error)
}

// MenuService implements the public menu query and the admin CRUD operations.
// Validation failures, duplicates and stale ids surface as models.ErrInvalidInput,
// models.ErrDuplicateKey and models.ErrNotFound so callers can treat them as no-ops.
type MenuService struct {
	repo     MenuRepository
	currency string
}

// NewMenuService constructs a MenuService. currency is appended to public prices.
func NewMenuService(repo MenuRepository, currency string) *MenuService {
	return &MenuService{repo: repo, currency: currency}
}

// Menu returns every category in display order with its flavor names.
func (s *MenuService) Menu(ctx context.Context) ([]models.MenuCategory, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	flavors, err := s.repo.ListFlavors(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]string, len(cats))
	for _, f := range flavors {
		byCategory[f.CategoryID] = append(byCategory[f.CategoryID], f.Name)
	}

	out := make([]models.MenuCategory, 0, len(cats))
	for _, c := range cats {
		items := byCategory[c.ID]
		if items == nil {
			items = []string{}
		}
		out = append(out, models.MenuCategory{
			ID:    c.ID,
			Key:   c.Key,
			Title: c.Title,
			Img:   c.Img,
			Price: s.FormatPrice(c.Price),
			Note:  c.Note,
			Items: items,
		})
	}
	return out, nil
}

// FormatPrice renders a price with two decimals and the currency suffix.
func (s *MenuService) FormatPrice(price float64) string {
	if s.currency == "" {
		return strconv.FormatFloat(price, 'f', 2, 64)
	}
	return fmt.Sprintf("%.2f %s", price, s.currency)
}

// Categories returns all categories in display order.
func (s *MenuService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// Category returns one category or models.ErrNotFound.
func (s *MenuService) Category(ctx context.Context, id int64) (*models.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// Flavors returns the flavors of one category.
func (s *MenuService) Flavors(ctx context.Context, categoryID int64) ([]models.Flavor, error) {
	return s.repo.FlavorsByCategory(ctx, categoryID)
}

// Counts returns category and flavor totals for the dashboard.
func (s *MenuService) Counts(ctx context.Context) (models.Counts, error) {
	return s.repo.Counts(ctx)
}

// AddCategory creates a category. The key is normalised to a slug; an empty
// key or title, an unparsable price or an existing key leaves the store untouched.
func (s *MenuService) AddCategory(ctx context.Context, form models.CategoryForm) error {
	key := slug.Make(strings.TrimSpace(form.Key))
	title := strings.TrimSpace(form.Title)
	if key == "" || title == "" {
		return models.ErrInvalidInput
	}
	price, err := parsePrice(form.Price)
	if err != nil {
		return err
	}

	exists, err := s.repo.KeyExists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrDuplicateKey
	}

	img := strings.TrimSpace(form.Img)
	if img == "" {
		img = DefaultImage
	}

	return s.repo.InsertCategory(ctx, &models.Category{
		Key:       key,
		Group:     models.DefaultGroup,
		Title:     title,
		Price:     price,
		Img:       img,
		Note:      strings.TrimSpace(form.Note),
		SortOrder: newCategorySortOrder,
	})
}

// UpdateCategory overwrites title, price, image and note of an existing
// category. The key is immutable. A blank image keeps the current one.
func (s *MenuService) UpdateCategory(ctx context.Context, id int64, form models.CategoryForm) error {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return models.ErrInvalidInput
	}
	price, err := parsePrice(form.Price)
	if err != nil {
		return err
	}

	current, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	current.Title = title
	current.Price = price
	current.Note = strings.TrimSpace(form.Note)
	if img := strings.TrimSpace(form.Img); img != "" {
		current.Img = img
	}
	return s.repo.UpdateCategory(ctx, current)
}

// DeleteCategory removes a category together with its flavors.
func (s *MenuService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

// AddFlavor appends a flavor to an existing category.
func (s *MenuService) AddFlavor(ctx context.Context, categoryID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ErrInvalidInput
	}
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return err
	}
	return s.repo.InsertFlavor(ctx, &models.Flavor{CategoryID: categoryID, Name: name})
}

// DeleteFlavor removes flavorID if, and only if, it belongs to categoryID.
func (s *MenuService) DeleteFlavor(ctx context.Context, categoryID, flavorID int64) error {
	return s.repo.DeleteFlavor(ctx, categoryID, flavorID)
}

// maxPrice is the first value a NUMERIC(10,2) column cannot hold.
const maxPrice = 1e8

// parsePrice accepts "139", "139.5" and the comma decimal form "139,5".
func parsePrice(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0, models.ErrInvalidInput
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || p < 0 || math.IsInf(p, 0) || math.IsNaN(p) {
		return 0, models.ErrInvalidInput
	}
	p = math.Round(p*100) / 100
	if p >= maxPrice {
		return 0, models.ErrInvalidInput
	}
	return p, nil
}
