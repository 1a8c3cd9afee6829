// internal/storage/file_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/domain"
)

const fileColumns = `id, user_id, filename, original_filename, file_size, upload_date`

// --- Stored File Operations ---

// InsertFile records the metadata of an uploaded file.
func InsertFile(ctx context.Context, db *sql.DB, f *domain.StoredFile) error {
	sqlStatement := `INSERT INTO user_files (` + fileColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, sqlStatement,
		f.ID, f.OwnerID, f.StoredName, f.OriginalName, f.SizeBytes, f.UploadedAt.UTC())
	if err != nil {
		customLog.Warnf("Storage: Failed to insert file %s for user %s: %v", f.ID, f.OwnerID, err)
		return fmt.Errorf("database error recording file: %w", err)
	}
	return nil
}

// ListFiles returns the files owned by ownerID, newest first.
func ListFiles(ctx context.Context, db *sql.DB, ownerID string, opts core.ListQueryOptions) ([]domain.StoredFile, error) {
	query := `SELECT ` + fileColumns + ` FROM user_files WHERE user_id = ?
		ORDER BY upload_date DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, ownerID, opts.Limit, opts.Offset)
	if err != nil {
		customLog.Warnf("Storage: Error listing files for user %s: %v", ownerID, err)
		return nil, fmt.Errorf("database error listing files: %w", err)
	}
	defer rows.Close()

	files := make([]domain.StoredFile, 0)
	for rows.Next() {
		var f domain.StoredFile
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.StoredName, &f.OriginalName, &f.SizeBytes, &f.UploadedAt); err != nil {
			customLog.Warnf("Storage: Error scanning file row for user %s: %v", ownerID, err)
			return nil, fmt.Errorf("failed processing file list: %w", err)
		}
		files = append(files, f)
	}
	if err = rows.Err(); err != nil {
		customLog.Warnf("Storage: Error iterating file list for user %s: %v", ownerID, err)
		return nil, fmt.Errorf("failed reading file list: %w", err)
	}
	return files, nil
}

// FindFileByID returns the file only if it belongs to ownerID. A file owned by
// someone else is reported exactly like a missing one.
func FindFileByID(ctx context.Context, db *sql.DB, ownerID, fileID string) (*domain.StoredFile, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM user_files WHERE id = ? AND user_id = ? LIMIT 1`, fileID, ownerID)
	return scanFile(row, ownerID, fileID)
}

// FindFileByStoredName looks a file up by its generated storage name, scoped to ownerID.
func FindFileByStoredName(ctx context.Context, db *sql.DB, ownerID, storedName string) (*domain.StoredFile, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM user_files WHERE filename = ? AND user_id = ? LIMIT 1`, storedName, ownerID)
	return scanFile(row, ownerID, storedName)
}

// DeleteFileRecord removes the metadata row (and, through the foreign key, its mapping).
func DeleteFileRecord(ctx context.Context, db *sql.DB, ownerID, fileID string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM user_files WHERE id = ? AND user_id = ?`, fileID, ownerID)
	if err != nil {
		customLog.Warnf("Storage: Error deleting file %s for user %s: %v", fileID, ownerID, err)
		return fmt.Errorf("database error deleting file: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming file deletion: %w", err)
	}
	if rowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func scanFile(row *sql.Row, ownerID, key string) (*domain.StoredFile, error) {
	var f domain.StoredFile
	err := row.Scan(&f.ID, &f.OwnerID, &f.StoredName, &f.OriginalName, &f.SizeBytes, &f.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		customLog.Warnf("Storage: Error looking up file %s for user %s: %v", key, ownerID, err)
		return nil, fmt.Errorf("database error finding file: %w", err)
	}
	return &f, nil
}
