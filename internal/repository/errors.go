package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteCoder matches *sqlite.Error from modernc.org/sqlite.
type sqliteCoder interface {
	error
	Code() int
}

// sqliteConstraint reports whether err is a sqlite constraint failure of the
// given extended code. Primary codes fall back to the message text.
func sqliteConstraint(err error, extended int, text string) bool {
	var sqliteErr sqliteCoder
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == extended {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), text)
}

// isUniqueViolation reports whether err is a unique constraint failure.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return sqliteConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE")
}

// isForeignKeyViolation reports whether err is a foreign key constraint failure.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return sqliteConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY")
}
