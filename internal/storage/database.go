// internal/storage/database.go
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Driver registration

	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY NOT NULL,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE,
		hashed_password TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_superuser BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`},
	{"user_files", `
	CREATE TABLE IF NOT EXISTS user_files (
		id TEXT PRIMARY KEY NOT NULL,
		user_id TEXT NOT NULL,
		filename TEXT UNIQUE NOT NULL,
		original_filename TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		upload_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`},
	{"user_files index", `CREATE INDEX IF NOT EXISTS idx_user_files_owner ON user_files (user_id, upload_date);`},
	{"files_with_mapping", `
	CREATE TABLE IF NOT EXISTS files_with_mapping (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id TEXT UNIQUE NOT NULL,
		mapping_data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (file_id) REFERENCES user_files(id) ON DELETE CASCADE
	);`},
	{"user_dictionary", `
	CREATE TABLE IF NOT EXISTS user_dictionary (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		word TEXT NOT NULL,
		translation TEXT NOT NULL,
		context TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, word),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`},
}

// ConnectMetadataDB initializes the connection pool for the application SQLite
// database and ensures the users, user_files, files_with_mapping and
// user_dictionary tables exist.
func ConnectMetadataDB(cfg *config.Config) (*sql.DB, error) {
	dbPath := filepath.Join(cfg.MetadataDbDir, cfg.MetadataDbFile)
	customLog.Printf("Storage: Initializing database: %s", dbPath)

	if err := os.MkdirAll(cfg.MetadataDbDir, 0o750); err != nil {
		customLog.Warnf("Storage: Error creating data directory '%s': %v", cfg.MetadataDbDir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Foreign keys drive the mapping cascade on file deletion; WAL and the busy
	// timeout let concurrent requests wait for the writer instead of failing.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		customLog.Warnf("Storage: Failed to open db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	for _, stmt := range schemaStatements {
		if _, err = db.Exec(stmt.sql); err != nil {
			db.Close()
			customLog.Warnf("Storage: Failed to ensure %s: %v", stmt.name, err)
			return nil, fmt.Errorf("failed to ensure %s: %w", stmt.name, err)
		}
		customLog.Debugf("Storage: %s ensured.", stmt.name)
	}

	return db, nil
}
