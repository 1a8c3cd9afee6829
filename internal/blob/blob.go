// internal/blob/blob.go
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/logger"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidName = errors.New("invalid blob name")
	customLog      = logger.NewLogger()
)

// Store keeps uploaded file bytes under server-generated names.
type Store interface {
	// Put writes everything from r under name and returns the number of bytes
	// stored. On error nothing is left behind under name.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)
	// Open returns the content stored under name, or ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes name. Removing a name that does not exist is not an error.
	Delete(ctx context.Context, name string) error
}

// NewFromConfig builds the Store selected by cfg.BlobBackend.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		customLog.Printf("Blob: Using S3 bucket %s", cfg.S3Bucket)
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			SpoolDir:  cfg.UploadDir,
		})
	case config.BlobBackendLocal, "":
		customLog.Printf("Blob: Using local directory %s", cfg.UploadDir)
		return NewLocalStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

// checkName rejects anything that is not a single plain path element.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
