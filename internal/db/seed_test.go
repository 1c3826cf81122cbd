package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/atinyakov/CafeMenu/internal/db"
	"github.com/atinyakov/CafeMenu/internal/models"
)

func setupSeedMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestSeed_EmptyDatabase(t *testing.T) {
	conn, mock := setupSeedMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for i, c := range db.DefaultMenu {
		id := int64(i + 1)
		mock.ExpectQuery(`INSERT INTO categories`).
			WithArgs(sqlmock.AnyArg(), models.DefaultGroup, c.Title, c.Price, c.Img, i+1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
		for _, name := range c.Flavors {
			mock.ExpectExec(`INSERT INTO flavors`).
				WithArgs(id, name).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectCommit()

	seeded, err := db.Seed(context.Background(), conn)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !seeded {
		t.Error("Seed reported no insert on empty database")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSeed_ExistingCategories(t *testing.T) {
	conn, mock := setupSeedMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	seeded, err := db.Seed(context.Background(), conn)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if seeded {
		t.Error("Seed inserted into a non-empty database")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSeed_InsertFailureRollsBack(t *testing.T) {
	conn, mock := setupSeedMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO categories`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if _, err := db.Seed(context.Background(), conn); err == nil {
		t.Fatal("expected error from failed insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDefaultMenu_FlavorCounts(t *testing.T) {
	want := []int{6, 4, 4, 6, 3, 4}
	if len(db.DefaultMenu) != len(want) {
		t.Fatalf("DefaultMenu has %d categories; want %d", len(db.DefaultMenu), len(want))
	}
	total := 0
	for i, c := range db.DefaultMenu {
		if len(c.Flavors) != want[i] {
			t.Errorf("%s has %d flavors; want %d", c.Title, len(c.Flavors), want[i])
		}
		total += len(c.Flavors)
	}
	if total != 27 {
		t.Errorf("total flavors = %d; want 27", total)
	}
}

func TestSeed_SQLiteTwice(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()
	if err := db.Migrate(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	first, err := db.Seed(ctx, conn)
	if err != nil || !first {
		t.Fatalf("first Seed = %v, %v; want true, nil", first, err)
	}
	second, err := db.Seed(ctx, conn)
	if err != nil || second {
		t.Fatalf("second Seed = %v, %v; want false, nil", second, err)
	}

	var categories, flavors int
	if err := conn.Get(&categories, `SELECT COUNT(*) FROM categories`); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if err := conn.Get(&flavors, `SELECT COUNT(*) FROM flavors`); err != nil {
		t.Fatalf("count flavors: %v", err)
	}
	if categories != 6 || flavors != 27 {
		t.Errorf("got %d categories / %d flavors; want 6 / 27", categories, flavors)
	}

	var key string
	if err := conn.Get(&key, `SELECT slug FROM categories WHERE title = 'Milkshake'`); err != nil {
		t.Fatalf("read slug: %v", err)
	}
	if key != "milkshake" {
		t.Errorf("slug = %q; want milkshake", key)
	}
}
