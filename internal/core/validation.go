// internal/core/validation.go
package core

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrValidation marks malformed or missing client input.
var ErrValidation = errors.New("validation failed")

// Stored names are "<uuid>.<ext>", generated server-side.
var storedNameRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.[a-z0-9]{1,8}$`)

// AllowedUploadTypes maps accepted file extensions (lowercase, with dot) to
// the MIME type their content must sniff as.
var AllowedUploadTypes = map[string]string{
	".pdf": "application/pdf",
}

// UploadExtension returns the lowercase extension of a client-supplied file
// name and the MIME type required for it, or ok=false if the type is not accepted.
func UploadExtension(originalName string) (ext string, mimeType string, ok bool) {
	ext = strings.ToLower(filepath.Ext(strings.TrimSpace(originalName)))
	mimeType, ok = AllowedUploadTypes[ext]
	return ext, mimeType, ok
}

// IsValidStoredName checks a file name taken from a URL path against the
// server-generated naming pattern, which also rules out path traversal.
func IsValidStoredName(name string) bool {
	return storedNameRegex.MatchString(name)
}

// NormalizeText trims surrounding whitespace and reports whether anything is left.
func NormalizeText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
