package blobstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/eisengo/backend/domain"
)

// Store persists attachment bytes on disk under a per-task namespace.
// Stored references are relative "<taskID>/<filename>" paths.
type Store struct {
	root string
}

// NewStore ensures the storage root exists.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes the file under the task's namespace and returns the stored
// reference. The filename is reduced to its base name first.
func (s *Store) Save(taskID, filename string, data []byte) (string, error) {
	name, err := CleanFilename(filename)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}
	return Ref(taskID, name), nil
}

// Read returns the bytes for a stored reference. A missing file maps to
// domain.ErrFileNotFound.
func (s *Store) Read(ref string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(ref)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	return data, nil
}

// Exists reports whether a stored reference resolves to a file on disk.
func (s *Store) Exists(ref string) bool {
	info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(ref)))
	return err == nil && !info.IsDir()
}

// Remove deletes a single stored reference. Missing files are not an error.
func (s *Store) Remove(ref string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveNamespace deletes the task's whole attachment directory.
func (s *Store) RemoveNamespace(taskID string) error {
	if taskID == "" {
		return nil
	}
	return os.RemoveAll(filepath.Join(s.root, taskID))
}

// Resolve joins a client-provided filename onto the task's namespace and
// returns the stored reference it lands on. Paths escaping the storage root
// are rejected. Paths crossing into another task's namespace are not: the
// caller is expected to compare the reference against the task's recorded
// attachment paths.
func (s *Store) Resolve(taskID, filename string) (string, error) {
	if filename == "" || strings.ContainsRune(filename, '\x00') {
		return "", domain.NewError(domain.ErrCodeInvalidField, "invalid filename")
	}
	joined := filepath.Join(s.root, taskID, filepath.FromSlash(filename))

	rel, err := filepath.Rel(s.root, joined)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", domain.NewError(domain.ErrCodeInvalidField, "invalid filename")
	}
	return filepath.ToSlash(rel), nil
}

// Ref builds the stored reference for a task-scoped filename.
func Ref(taskID, filename string) string {
	return taskID + "/" + filename
}

// CleanFilename reduces a client-provided filename to a safe base name.
func CleanFilename(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\x00") {
		return "", domain.NewError(domain.ErrCodeInvalidField, "invalid filename")
	}
	return name, nil
}
