// internal/storage/mapping_repo.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Annany2002/bookreader-backend/internal/domain"
)

// UpsertMapping stores the paragraph alignment of a file, replacing any
// previous alignment for the same file entirely.
func UpsertMapping(ctx context.Context, db *sql.DB, fileID string, pairs []domain.ParagraphPair, now time.Time) error {
	if pairs == nil {
		pairs = []domain.ParagraphPair{}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	sqlStatement := `
	INSERT INTO files_with_mapping (file_id, mapping_data, created_at) VALUES (?, ?, ?)
	ON CONFLICT(file_id) DO UPDATE SET mapping_data = excluded.mapping_data, created_at = excluded.created_at`
	if _, err := db.ExecContext(ctx, sqlStatement, fileID, string(data), now.UTC()); err != nil {
		customLog.Warnf("Storage: Failed to save mapping for file %s: %v", fileID, err)
		return fmt.Errorf("database error saving mapping: %w", err)
	}
	return nil
}

// FindMapping returns the stored alignment of a file. Callers must have
// checked ownership of fileID beforehand.
func FindMapping(ctx context.Context, db *sql.DB, fileID string) (*domain.BookAlignment, error) {
	var raw string
	alignment := domain.BookAlignment{FileID: fileID}

	err := db.QueryRowContext(ctx,
		`SELECT mapping_data, created_at FROM files_with_mapping WHERE file_id = ? LIMIT 1`, fileID,
	).Scan(&raw, &alignment.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMappingNotFound
		}
		customLog.Warnf("Storage: Error loading mapping for file %s: %v", fileID, err)
		return nil, fmt.Errorf("database error loading mapping: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &alignment.Pairs); err != nil {
		customLog.Warnf("Storage: Corrupt mapping data for file %s: %v", fileID, err)
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	return &alignment, nil
}
