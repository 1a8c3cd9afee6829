// internal/storage/dictionary_repo.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/domain"
)

// UpsertDictionaryEntry adds a word to the user's dictionary or, if the word
// is already there, replaces its translation and context in place. The
// original created_at is kept. Word and translation are trimmed and must not
// be empty.
func UpsertDictionaryEntry(ctx context.Context, db *sql.DB, ownerID, word, translation, wordContext string, now time.Time) error {
	word, okWord := core.NormalizeText(word)
	translation, okTranslation := core.NormalizeText(translation)
	if !okWord || !okTranslation {
		return ErrEmptyField
	}

	var ctxValue sql.NullString
	if c := strings.TrimSpace(wordContext); c != "" {
		ctxValue = sql.NullString{String: c, Valid: true}
	}

	sqlStatement := `
	INSERT INTO user_dictionary (user_id, word, translation, context, created_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id, word) DO UPDATE SET translation = excluded.translation, context = excluded.context`
	if _, err := db.ExecContext(ctx, sqlStatement, ownerID, word, translation, ctxValue, now.UTC()); err != nil {
		customLog.Warnf("Storage: Failed to upsert dictionary word '%s' for user %s: %v", word, ownerID, err)
		return fmt.Errorf("database error saving dictionary entry: %w", err)
	}
	return nil
}

// ListDictionaryEntries returns the user's entries, newest first.
func ListDictionaryEntries(ctx context.Context, db *sql.DB, ownerID string, opts core.ListQueryOptions) ([]domain.DictionaryEntry, error) {
	query := `SELECT id, user_id, word, translation, context, created_at FROM user_dictionary
		WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, ownerID, opts.Limit, opts.Offset)
	if err != nil {
		customLog.Warnf("Storage: Error listing dictionary for user %s: %v", ownerID, err)
		return nil, fmt.Errorf("database error listing dictionary: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.DictionaryEntry, 0)
	for rows.Next() {
		var e domain.DictionaryEntry
		var ctxValue sql.NullString
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Word, &e.Translation, &ctxValue, &e.CreatedAt); err != nil {
			customLog.Warnf("Storage: Error scanning dictionary row for user %s: %v", ownerID, err)
			return nil, fmt.Errorf("failed processing dictionary: %w", err)
		}
		e.Context = ctxValue.String
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading dictionary: %w", err)
	}
	return entries, nil
}

// DeleteDictionaryEntry removes an entry owned by ownerID. Deleting an entry
// that does not exist or belongs to another user is a no-op.
func DeleteDictionaryEntry(ctx context.Context, db *sql.DB, ownerID string, entryID int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM user_dictionary WHERE id = ? AND user_id = ?`, entryID, ownerID); err != nil {
		customLog.Warnf("Storage: Error deleting dictionary entry %d for user %s: %v", entryID, ownerID, err)
		return fmt.Errorf("database error deleting dictionary entry: %w", err)
	}
	return nil
}

// DictionaryWordExists reports whether the user already saved word.
func DictionaryWordExists(ctx context.Context, db *sql.DB, ownerID, word string) (bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return false, nil
	}
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_dictionary WHERE user_id = ? AND word = ?)`, ownerID, word,
	).Scan(&exists)
	if err != nil {
		customLog.Warnf("Storage: Error checking dictionary word '%s' for user %s: %v", word, ownerID, err)
		return false, fmt.Errorf("database error checking dictionary: %w", err)
	}
	return exists, nil
}
