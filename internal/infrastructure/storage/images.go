// Package storage persists uploaded images on the local filesystem
// under a single directory, naming each file with a random UUID.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/daskousik/blog-api/internal/core/domain"
)

type ImageStore struct {
	dir    string
	logger zerolog.Logger
}

// NewImageStore creates the upload directory if needed.
func NewImageStore(dir string, logger zerolog.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{dir: dir, logger: logger}, nil
}

// Save writes the uploaded content to a new uuid-named file, keeping
// the original extension, and returns the relative stored path using
// forward slashes.
func (s *ImageStore) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	full := filepath.Join(s.dir, name)

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(filepath.Base(s.dir), name)), nil
}

// Remove deletes the file behind a stored path. Deletion is
// best-effort: failures are logged and swallowed so callers never abort
// on a missing or locked file. Paths resolving outside the upload
// directory are ignored.
func (s *ImageStore) Remove(storedPath string) {
	if storedPath == "" || storedPath == domain.NoImagePlaceholder {
		return
	}

	name := filepath.Base(filepath.Clean(storedPath))
	if name == "." || name == string(filepath.Separator) {
		return
	}

	full := filepath.Join(s.dir, name)
	if err := os.Remove(full); err != nil {
		s.logger.Warn().Err(err).Str("path", storedPath).Msg("image cleanup failed")
	}
}
