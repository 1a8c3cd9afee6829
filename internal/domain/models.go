// internal/domain/models.go
package domain

import "time"

// User defines the structure for user data in the DB
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// StoredFile is the metadata row of an uploaded file. StoredName is generated
// server-side and is the only name used to address the bytes.
type StoredFile struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"-"`
	StoredName   string    `json:"filename"`
	OriginalName string    `json:"original_filename"`
	SizeBytes    int64     `json:"file_size"`
	UploadedAt   time.Time `json:"upload_date"`
}

// ParagraphPair is one aligned source/target paragraph.
type ParagraphPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// BookAlignment is the single paragraph mapping kept per file.
type BookAlignment struct {
	FileID    string          `json:"file_id"`
	Pairs     []ParagraphPair `json:"paragraphs"`
	CreatedAt time.Time       `json:"created_at"`
}

// DictionaryEntry is a word saved by a user together with its translation.
type DictionaryEntry struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"-"`
	Word        string    `json:"word"`
	Translation string    `json:"translation"`
	Context     string    `json:"context"`
	CreatedAt   time.Time `json:"created_at"`
}
