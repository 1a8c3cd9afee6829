package storage

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Specific errors for storage operations
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already registered")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrFileNotFound       = errors.New("file not found or permission denied")
	ErrMappingNotFound    = errors.New("mapping for this file not found")
	ErrEmptyField         = errors.New("word and translation cannot be empty")
)

// uniqueViolation reports whether err is a SQLite UNIQUE constraint failure
// and, if so, returns the "table.column" list named in the message.
func uniqueViolation(err error) (string, bool) {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return "", false
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique && sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return "", false
	}
	msg := sqliteErr.Error()
	if i := strings.Index(msg, ":"); i >= 0 {
		return strings.TrimSpace(msg[i+1:]), true
	}
	return msg, true
}
