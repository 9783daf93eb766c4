package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiskStore keeps uploaded image files in a local or shared directory.
// Names are server-generated and never reused, so a retried save can
// never collide with an earlier one.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the bytes under a generated unique name, keeping the
// original file's extension, and returns the stored name.
func (s *DiskStore) Save(originalName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("store file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored file. Callers treat failures as best-effort:
// the image record, not the filesystem, is the source of truth.
func (s *DiskStore) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Exists reports whether a stored file is still on disk.
func (s *DiskStore) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}
