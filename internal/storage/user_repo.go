// internal/storage/user_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Annany2002/bookreader-backend/internal/domain"
)

const userColumns = `id, username, email, hashed_password, is_active, is_superuser, created_at`

// --- User Operations ---

// CreateUser inserts a new user. The UNIQUE constraints on username and email
// are the only guard against concurrent duplicate registrations.
func CreateUser(ctx context.Context, db *sql.DB, user *domain.User) error {
	sqlStatement := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	var email sql.NullString
	if user.Email != "" {
		email = sql.NullString{String: user.Email, Valid: true}
	}

	_, err := db.ExecContext(ctx, sqlStatement,
		user.ID, user.Username, email, user.PasswordHash, user.IsActive, user.IsSuperuser, user.CreatedAt.UTC())
	if err != nil {
		if cols, ok := uniqueViolation(err); ok {
			switch {
			case strings.Contains(cols, "users.username"):
				return ErrUsernameExists
			case strings.Contains(cols, "users.email"):
				return ErrEmailExists
			}
		}
		customLog.Warnf("Storage: Failed to insert user %s: %v", user.Username, err)
		return fmt.Errorf("database error during user creation: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by their exact (case-sensitive) username.
func FindUserByUsername(ctx context.Context, db *sql.DB, username string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ? LIMIT 1`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		customLog.Warnf("Storage: Failed to find user by username %s: %v", username, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return user, nil
}

// FindUserByID finds a user by primary key
func FindUserByID(ctx context.Context, db *sql.DB, userID string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		customLog.Warnf("Storage: Failed to find user by id %s: %v", userID, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return user, nil
}

// SetUserActive flips the is_active flag of a user.
func SetUserActive(ctx context.Context, db *sql.DB, userID string, active bool) error {
	result, err := db.ExecContext(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, active, userID)
	if err != nil {
		customLog.Warnf("Storage: Failed to update is_active for user %s: %v", userID, err)
		return fmt.Errorf("database error during user update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm user update: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var email sql.NullString
	err := row.Scan(&user.ID, &user.Username, &email, &user.PasswordHash, &user.IsActive, &user.IsSuperuser, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Email = email.String
	return &user, nil
}
