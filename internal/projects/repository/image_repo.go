package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/showfolio/showfolio-backend/internal/projects/domain"
)

// ImageRepository provides persistence operations for project images.
// Image records are strictly owned by their project: they are only
// written as a side effect of project create/update and removed on
// replacement or project deletion.
type ImageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Insert(ctx context.Context, img *domain.Image) error {
	const q = `
INSERT INTO project_images (id, project_id, path)
VALUES ($1, $2, $3)
RETURNING created_at, updated_at;
`
	return r.db.QueryRowContext(ctx, q, img.ID, img.ProjectID, img.Path).
		Scan(&img.CreatedAt, &img.UpdatedAt)
}

// ListByProject returns the project's images in attachment order.
func (r *ImageRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Image, error) {
	const q = `
SELECT id, project_id, path, created_at, updated_at
FROM project_images
WHERE project_id = $1
ORDER BY seq;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectImages(rows)
}

// ListByProjects returns the images of all given projects keyed by
// project id, for expanding a page of previews in one query.
func (r *ImageRepository) ListByProjects(ctx context.Context, projectIDs []string) (map[string][]domain.Image, error) {
	out := make(map[string][]domain.Image, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}

	const q = `
SELECT id, project_id, path, created_at, updated_at
FROM project_images
WHERE project_id = ANY($1::uuid[])
ORDER BY seq;
`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(projectIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imgs, err := collectImages(rows)
	if err != nil {
		return nil, err
	}
	for _, img := range imgs {
		out[img.ProjectID] = append(out[img.ProjectID], img)
	}
	return out, nil
}

// Delete removes a single image record.
func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM project_images WHERE id = $1;`

	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

// DeleteByProject removes every image record of the project and
// returns the deleted records so the caller can clean up their files.
func (r *ImageRepository) DeleteByProject(ctx context.Context, projectID string) ([]domain.Image, error) {
	const q = `
DELETE FROM project_images
WHERE project_id = $1
RETURNING id, project_id, path, created_at, updated_at;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectImages(rows)
}

func collectImages(rows *sql.Rows) ([]domain.Image, error) {
	out := make([]domain.Image, 0, 8)
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.ProjectID, &img.Path, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, nil
		}
		return nil, err
	}
	return out, nil
}
