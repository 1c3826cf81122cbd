package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationSource returns the embedded migration files for the dialect.
func migrationSource(dialect Dialect) (fs.FS, string, error) {
	switch dialect {
	case Postgres, SQLite:
		return migrationsFS, "migrations/" + string(dialect), nil
	default:
		return nil, "", fmt.Errorf("no migrations for dialect %q", dialect)
	}
}

// driftColumns are category columns missing from some older databases.
// Migration 1 creates tables only when absent, so they are added here
// before the versioned migrations run.
var driftColumns = []struct{ name, ddl string }{
	{"group_name", "group_name TEXT NOT NULL DEFAULT 'Soğuk İçecekler'"},
	{"sort_order", "sort_order INTEGER NOT NULL DEFAULT 999"},
}

// placeholderSlugVersion is the migration that fills slug with category-<id>.
const placeholderSlugVersion = 2

// Migrate applies every pending migration. Applied versions are tracked in
// the schema_migrations table, so running it on every startup is safe.
func Migrate(ctx context.Context, db *sqlx.DB, dialect Dialect) error {
	fsys, dir, err := migrationSource(dialect)
	if err != nil {
		return err
	}
	if err := addDriftColumns(ctx, db, dialect); err != nil {
		return err
	}
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	var (
		driver database.Driver
		owned  bool
	)
	switch dialect {
	case Postgres:
		conn, err := db.Conn(ctx)
		if err != nil {
			_ = src.Close()
			return fmt.Errorf("acquire connection: %w", err)
		}
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			_ = conn.Close()
			_ = src.Close()
			return fmt.Errorf("postgres migration driver: %w", err)
		}
		owned = true
	case SQLite:
		driver, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
		if err != nil {
			_ = src.Close()
			return fmt.Errorf("sqlite migration driver: %w", err)
		}
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("init migrations: %w", err)
	}
	// The sqlite driver closes the shared *sql.DB on Close, so for sqlite
	// only the source is released.
	if owned {
		defer m.Close()
	} else {
		defer src.Close()
	}

	before, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if before < placeholderSlugVersion {
		if err := backfillSlugs(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

// addDriftColumns adds driftColumns to an existing categories table.
func addDriftColumns(ctx context.Context, db *sqlx.DB, dialect Dialect) error {
	if dialect == Postgres {
		for _, c := range driftColumns {
			q := "ALTER TABLE IF EXISTS categories ADD COLUMN IF NOT EXISTS " + c.ddl
			if _, err := db.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("add column %s: %w", c.name, err)
			}
		}
		return nil
	}

	var tables int
	if err := db.GetContext(ctx, &tables,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'categories'`); err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if tables == 0 {
		return nil
	}
	for _, c := range driftColumns {
		var n int
		if err := db.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM pragma_table_info('categories') WHERE name = ?`, c.name); err != nil {
			return fmt.Errorf("inspect column %s: %w", c.name, err)
		}
		if n > 0 {
			continue
		}
		if _, err := db.ExecContext(ctx, "ALTER TABLE categories ADD COLUMN "+c.ddl); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}
	return nil
}

// backfillSlugs replaces the category-<id> placeholders written by the slug
// migration with a slug of the title. A taken slug gets the id appended.
// An empty slug, or one that is still taken, keeps the placeholder.
func backfillSlugs(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin slug backfill: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rows []struct {
		ID    int64  `db:"id"`
		Title string `db:"title"`
		Slug  string `db:"slug"`
	}
	if err := tx.SelectContext(ctx, &rows, `SELECT id, title, slug FROM categories ORDER BY id`); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	taken := make(map[string]bool, len(rows))
	for _, r := range rows {
		taken[r.Slug] = true
	}
	update := tx.Rebind(`UPDATE categories SET slug = ? WHERE id = ?`)
	for _, r := range rows {
		if r.Slug != "category-"+strconv.FormatInt(r.ID, 10) {
			continue
		}
		base := slug.Make(r.Title)
		next := base
		if next == "" || taken[next] {
			next = base + "-" + strconv.FormatInt(r.ID, 10)
		}
		if base == "" || taken[next] {
			continue
		}
		if _, err := tx.ExecContext(ctx, update, next, r.ID); err != nil {
			return fmt.Errorf("update slug of category %d: %w", r.ID, err)
		}
		delete(taken, r.Slug)
		taken[next] = true
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit slug backfill: %w", err)
	}
	return nil
}

// Versions lists the migration versions embedded for the dialect, in order.
func Versions(dialect Dialect) ([]uint, error) {
	fsys, dir, err := migrationSource(dialect)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return nil, fmt.Errorf("first migration: %w", err)
	}
	versions := []uint{v}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return versions, nil
		}
		if err != nil {
			return nil, fmt.Errorf("next migration after %d: %w", v, err)
		}
		versions = append(versions, next)
		v = next
	}
}
