// internal/files/service.go
package files

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Annany2002/bookreader-backend/internal/blob"
	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/domain"
	"github.com/Annany2002/bookreader-backend/internal/logger"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

// sniffLen is how much of an upload is inspected to detect its type.
const sniffLen = 512

var (
	ErrUnsupportedType = errors.New("only PDF files are allowed")
	ErrStorage         = errors.New("could not store file")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	customLog          = logger.NewLogger()
)

// Service owns uploaded files: the bytes in a blob.Store and the metadata rows
// in the database, kept consistent with each other.
type Service struct {
	db       *sql.DB
	store    blob.Store
	maxBytes int64
	now      func() time.Time
}

// NewService returns a Service. A non-positive maxBytes disables the size limit.
func NewService(db *sql.DB, store blob.Store, maxBytes int64) *Service {
	return &Service{db: db, store: store, maxBytes: maxBytes, now: time.Now}
}

// Save validates and stores an upload for ownerID. The extension must be an
// accepted type and the content must sniff as the matching MIME type;
// otherwise ErrUnsupportedType is returned and nothing is written. If writing
// the bytes or recording the metadata fails, the bytes are removed again and
// ErrStorage is returned.
func (s *Service) Save(ctx context.Context, ownerID, originalName string, r io.Reader) (*domain.StoredFile, error) {
	ext, wantMIME, ok := core.UploadExtension(originalName)
	if !ok {
		return nil, ErrUnsupportedType
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: reading upload: %w", ErrStorage, err)
	}
	if len(head) == 0 || !mimetype.Detect(head).Is(wantMIME) {
		customLog.Printf("Files: Rejected upload '%s' for user %s: content is %s", originalName, ownerID, mimetype.Detect(head).String())
		return nil, ErrUnsupportedType
	}

	id := uuid.NewString()
	file := &domain.StoredFile{
		ID:           id,
		OwnerID:      ownerID,
		StoredName:   id + ext,
		OriginalName: filepath.Base(strings.TrimSpace(originalName)),
	}

	var body io.Reader = br
	if s.maxBytes > 0 {
		body = &limitedReader{r: br, remaining: s.maxBytes}
	}

	n, err := s.store.Put(ctx, file.StoredName, body)
	if err != nil {
		customLog.Warnf("Files: Failed to write %s for user %s: %v", file.StoredName, ownerID, err)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, fmt.Errorf("%w: %w", ErrStorage, ErrFileTooLarge)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	file.SizeBytes = n
	file.UploadedAt = s.now().UTC()

	if err := storage.InsertFile(ctx, s.db, file); err != nil {
		// The row is the only reference to the bytes; drop them.
		if delErr := s.store.Delete(context.WithoutCancel(ctx), file.StoredName); delErr != nil {
			customLog.Errorf("Files: Orphaned blob %s after failed insert: %v", file.StoredName, delErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	customLog.Printf("Files: Stored %s (%d bytes) for user %s", file.StoredName, n, ownerID)
	return file, nil
}

// List returns the owner's files, newest first.
func (s *Service) List(ctx context.Context, ownerID string, opts core.ListQueryOptions) ([]domain.StoredFile, error) {
	return storage.ListFiles(ctx, s.db, ownerID, opts)
}

// Get returns the metadata of a file owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, fileID string) (*domain.StoredFile, error) {
	return storage.FindFileByID(ctx, s.db, ownerID, fileID)
}

// Open returns the metadata and content of a file owned by ownerID. The caller
// closes the reader.
func (s *Service) Open(ctx context.Context, ownerID, fileID string) (*domain.StoredFile, io.ReadCloser, error) {
	file, err := storage.FindFileByID(ctx, s.db, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, file.StoredName)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			customLog.Warnf("Files: Metadata for %s exists but its bytes are missing", file.StoredName)
			return nil, nil, storage.ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return file, rc, nil
}

// Delete removes a file owned by ownerID: bytes first, then metadata. A file
// that is missing or owned by someone else yields storage.ErrFileNotFound with
// no side effects. If the bytes cannot be removed the metadata is kept and
// ErrStorage is returned.
func (s *Service) Delete(ctx context.Context, ownerID, fileID string) error {
	file, err := storage.FindFileByID(ctx, s.db, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, file.StoredName); err != nil {
		customLog.Warnf("Files: Failed to delete bytes of %s for user %s: %v", file.StoredName, ownerID, err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if err := storage.DeleteFileRecord(ctx, s.db, ownerID, fileID); err != nil {
		return err
	}
	customLog.Printf("Files: Deleted %s for user %s", file.StoredName, ownerID)
	return nil
}

// limitedReader fails with ErrFileTooLarge instead of truncating silently.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	return n, err
}
