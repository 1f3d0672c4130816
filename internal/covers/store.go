// Package covers stores uploaded cover images on disk and hands out opaque
// references for the book record. The data layer never inspects image bytes.
package covers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"biblioteca/internal/validate"
	"biblioteca/pkg/apperr"
)

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save copies the uploaded file into the store and returns its reference.
// The original name only contributes the extension.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cover directory: %w", err)
	}

	name := randomName() + sanitizeExt(originalName)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create cover file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}
	return validate.CoverRefPrefix + name, nil
}

// Resolve maps a stored reference back to a filesystem path.
func (s *Store) Resolve(ref string) (string, error) {
	name, ok := strings.CutPrefix(ref, validate.CoverRefPrefix)
	if !ok || name == "" || name != filepath.Base(name) {
		return "", apperr.NotFound("Cover")
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", apperr.NotFound("Cover")
	}
	return path, nil
}

// Remove deletes the stored file behind a reference. External URLs and
// already-missing files are ignored.
func (s *Store) Remove(ref string) error {
	path, err := s.Resolve(ref)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cover file: %w", err)
	}
	return nil
}

func randomName() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand on supported platforms does not fail in practice
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return ext
	default:
		return ".jpg"
	}
}
