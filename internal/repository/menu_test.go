package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/atinyakov/CafeMenu/internal/models"
)

func setupMenuMock(t *testing.T) (*MenuRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewMenuRepository(sqlx.NewDb(db, "sqlmock"))
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

var categoryCols = []string{"id", "slug", "group_name", "title", "price", "img", "note", "sort_order"}

func TestListCategories_Ordered(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM categories ORDER BY sort_order ASC, id ASC`)).
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(1, "milkshake", models.DefaultGroup, "Milkshake", "139.00", "milkshake.jpeg", "", 1).
			AddRow(2, "frappe", models.DefaultGroup, "Frappe", "119.00", "frappe.jpg", "buzlu", 2))

	cats, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("got %d categories; want 2", len(cats))
	}
	if cats[0].Key != "milkshake" || cats[0].Price != 139 {
		t.Errorf("first category = %+v", cats[0])
	}
	if cats[1].Note != "buzlu" {
		t.Errorf("second category note = %q; want buzlu", cats[1].Note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetCategory_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM categories WHERE id = ?`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(categoryCols))

	_, err := repo.GetCategory(context.Background(), 42)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v; want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestKeyExists(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = ?)`)).
		WithArgs("frozen").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.KeyExists(context.Background(), "frozen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected key to exist")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestInsertCategory_Success(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	c := &models.Category{Key: "limonata", Group: models.DefaultGroup, Title: "Limonata", Price: 89.5, Img: "limonata.jpg", SortOrder: 999}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories`)).
		WithArgs("limonata", models.DefaultGroup, "Limonata", 89.5, "limonata.jpg", "", 999).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	if err := repo.InsertCategory(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 7 {
		t.Errorf("ID = %d; want 7", c.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestInsertCategory_DuplicateKey(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.InsertCategory(context.Background(), &models.Category{Key: "frappe", Title: "Frappe"})
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("error = %v; want ErrDuplicateKey", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"updated", 1, nil},
		{"stale id", 0, models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupMenuMock(t)
			defer cleanup()

			mock.ExpectExec(regexp.QuoteMeta(`UPDATE categories SET title = ?, price = ?, img = ?, note = ? WHERE id = ?`)).
				WithArgs("Frappe", 125.0, "frappe.jpg", "", 2).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.UpdateCategory(context.Background(), &models.Category{ID: 2, Title: "Frappe", Price: 125, Img: "frappe.jpg"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v; want %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestDeleteCategory_Error(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categories WHERE id = ?`)).
		WithArgs(3).
		WillReturnError(errors.New("connection reset"))

	err := repo.DeleteCategory(context.Background(), 3)
	if err == nil || errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v; want wrapped store error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestInsertFlavor_MissingCategory(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO flavors (category_id, name) VALUES (?, ?) RETURNING id`)).
		WithArgs(99, "nane").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.InsertFlavor(context.Background(), &models.Flavor{CategoryID: 99, Name: "nane"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v; want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDeleteFlavor_ScopedToCategory(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM flavors WHERE id = ? AND category_id = ?`)).
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteFlavor(context.Background(), 1, 10)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v; want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFlavorsByCategory(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM flavors WHERE category_id = ? ORDER BY id ASC`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category_id", "name"}).
			AddRow(20, 5, "çilek").
			AddRow(21, 5, "nane"))

	flavors, err := repo.FlavorsByCategory(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(flavors) != 2 || flavors[0].Name != "çilek" || flavors[1].Name != "nane" {
		t.Errorf("flavors = %+v", flavors)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCounts(t *testing.T) {
	repo, mock, cleanup := setupMenuMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \(SELECT COUNT\(\*\) FROM categories\) AS categories`).
		WillReturnRows(sqlmock.NewRows([]string{"categories", "flavors"}).AddRow(6, 27))

	c, err := repo.Counts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Categories != 6 || c.Flavors != 27 {
		t.Errorf("counts = %+v; want 6/27", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
