package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/showfolio/showfolio-backend/internal/projects/domain"
)

// UploadFile is an uploaded blob handed over by the HTTP boundary.
type UploadFile struct {
	Name string
	Data []byte
}

// ImageStore is the persistence surface the attachment manager needs.
type ImageStore interface {
	Insert(ctx context.Context, img *domain.Image) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Image, error)
	ListByProjects(ctx context.Context, projectIDs []string) (map[string][]domain.Image, error)
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) ([]domain.Image, error)
}

// BlobStore stores raw file bytes under server-generated names.
type BlobStore interface {
	Save(originalName string, data []byte) (string, error)
	Remove(name string) error
}

// ImageManager keeps image records and their backing files in step.
// Records are the source of truth; file deletions are best-effort, but
// a file whose record was never written must not survive.
type ImageManager struct {
	images ImageStore
	blobs  BlobStore
}

func NewImageManager(images ImageStore, blobs BlobStore) *ImageManager {
	return &ImageManager{images: images, blobs: blobs}
}

// Attach stores each file and creates one image record per stored
// file. If a record insert fails after its file was stored, the file
// is deleted before the error propagates so no orphan is left on disk.
func (m *ImageManager) Attach(ctx context.Context, projectID string, files []UploadFile) ([]domain.Image, error) {
	out := make([]domain.Image, 0, len(files))
	for _, f := range files {
		path, err := m.blobs.Save(f.Name, f.Data)
		if err != nil {
			return out, fmt.Errorf("attach image: %w", err)
		}

		img := domain.Image{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			Path:      path,
		}
		if err := m.images.Insert(ctx, &img); err != nil {
			if rmErr := m.blobs.Remove(path); rmErr != nil {
				log.Printf("Warning: failed to roll back stored file %s: %v", path, rmErr)
			}
			return out, fmt.Errorf("attach image: %w", err)
		}
		out = append(out, img)
	}
	return out, nil
}

// Replace stores the new file and creates its record, and only after
// both succeed removes the old record and file. The old file deletion
// is best-effort.
func (m *ImageManager) Replace(ctx context.Context, projectID string, old domain.Image, file UploadFile) (domain.Image, error) {
	attached, err := m.Attach(ctx, projectID, []UploadFile{file})
	if err != nil {
		return domain.Image{}, err
	}
	img := attached[0]

	if err := m.images.Delete(ctx, old.ID); err != nil {
		return domain.Image{}, fmt.Errorf("replace image: %w", err)
	}
	if err := m.blobs.Remove(old.Path); err != nil {
		log.Printf("Warning: failed to delete replaced file %s: %v", old.Path, err)
	}
	return img, nil
}

// ListByProject returns the project's image records in attachment order.
func (m *ImageManager) ListByProject(ctx context.Context, projectID string) ([]domain.Image, error) {
	return m.images.ListByProject(ctx, projectID)
}

// ListByProjects returns image records for a page of projects, keyed
// by project id.
func (m *ImageManager) ListByProjects(ctx context.Context, projectIDs []string) (map[string][]domain.Image, error) {
	return m.images.ListByProjects(ctx, projectIDs)
}

// DetachAll deletes every image record of the project, then issues
// best-effort file deletions. A failed unlink never blocks deletion.
func (m *ImageManager) DetachAll(ctx context.Context, projectID string) error {
	deleted, err := m.images.DeleteByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("detach images: %w", err)
	}
	for _, img := range deleted {
		if err := m.blobs.Remove(img.Path); err != nil {
			log.Printf("Warning: failed to delete file %s: %v", img.Path, err)
		}
	}
	return nil
}
