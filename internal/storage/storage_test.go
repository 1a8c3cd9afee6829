package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/domain"
)

// testDBSetup creates a temporary SQLite DB with the full schema.
func testDBSetup(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &config.Config{
		MetadataDbDir:  t.TempDir(),
		MetadataDbFile: "test_app.db",
	}
	db, err := ConnectMetadataDB(cfg)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})
	return db
}

// seedUser inserts a user with a placeholder hash and returns it.
func seedUser(t *testing.T, db *sql.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "not-a-real-hash",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, CreateUser(context.Background(), db, u))
	return u
}

// seedFile records a file row for owner and returns it.
func seedFile(t *testing.T, db *sql.DB, owner *domain.User, uploadedAt time.Time) *domain.StoredFile {
	t.Helper()
	id := uuid.NewString()
	f := &domain.StoredFile{
		ID:           id,
		OwnerID:      owner.ID,
		StoredName:   id + ".pdf",
		OriginalName: "book.pdf",
		SizeBytes:    1024,
		UploadedAt:   uploadedAt,
	}
	require.NoError(t, InsertFile(context.Background(), db, f))
	return f
}
