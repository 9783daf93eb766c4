package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/showfolio/showfolio-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, seq, title, category_id, short_description, full_readme, deadline, owner_id, status, skills, created_at, updated_at`

// Create inserts a new project. A unique violation from the store is
// translated to domain.ErrConflict naming the offending title.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects (id, title, category_id, short_description, full_readme, deadline, owner_id, status, skills)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::uuid[])
RETURNING seq, created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		p.ID, p.Title, p.CategoryID, p.ShortDescription, p.FullReadme,
		nullTime(p.Deadline), p.OwnerID, string(p.Status), pq.Array(p.SkillIDs)).
		Scan(&p.Seq, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("title %q: %w", p.Title, domain.ErrConflict)
		}
		return err
	}
	return nil
}

// GetByID returns the project or domain.ErrNotFound.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns one page of projects matching the filter plus the total
// count before pagination. Newest-created first, ties broken by
// insertion order. The long-form readme is not loaded for listings.
func (r *ProjectRepository) List(ctx context.Context, f ListFilter) ([]domain.Project, int, error) {
	f.Normalize()
	where, args := f.whereClause()

	var total int
	countQ := `SELECT count(*) FROM projects ` + where + `;`
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQ := fmt.Sprintf(`
SELECT id, seq, title, category_id, short_description, deadline, owner_id, status, skills, created_at, updated_at
FROM projects %s
ORDER BY created_at DESC, seq DESC
LIMIT $%d OFFSET $%d;`, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, listQ, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, f.Limit)
	for rows.Next() {
		var p domain.Project
		var deadline sql.NullTime
		var status string
		if err := rows.Scan(&p.ID, &p.Seq, &p.Title, &p.CategoryID, &p.ShortDescription,
			&deadline, &p.OwnerID, &status, (*pq.StringArray)(&p.SkillIDs),
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if deadline.Valid {
			t := deadline.Time
			p.Deadline = &t
		}
		p.Status = domain.Status(status)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ProjectUpdate is a partial update: only non-nil fields change.
type ProjectUpdate struct {
	Title            *string
	CategoryID       *string
	ShortDescription *string
	FullReadme       *string
	Deadline         *time.Time
	Status           *domain.Status
	SkillIDs         *[]string
}

// Update applies the partial update and returns the updated project,
// or domain.ErrNotFound. Last writer wins at the field level.
func (r *ProjectRepository) Update(ctx context.Context, id string, u ProjectUpdate) (*domain.Project, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.CategoryID != nil {
		add("category_id", *u.CategoryID)
	}
	if u.ShortDescription != nil {
		add("short_description", *u.ShortDescription)
	}
	if u.FullReadme != nil {
		add("full_readme", *u.FullReadme)
	}
	if u.Deadline != nil {
		add("deadline", *u.Deadline)
	}
	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.SkillIDs != nil {
		add("skills", pq.Array(*u.SkillIDs))
	}

	q := fmt.Sprintf(`
UPDATE projects
SET %s
WHERE id = $1
RETURNING %s;`, strings.Join(sets, ", "), projectColumns)

	p, err := scanProject(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			title := ""
			if u.Title != nil {
				title = *u.Title
			}
			return nil, fmt.Errorf("title %q: %w", title, domain.ErrConflict)
		}
		return nil, err
	}
	return p, nil
}

// UpdateStatus sets the status field and returns the updated project,
// or domain.ErrNotFound.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Project, error) {
	q := `
UPDATE projects
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns + `;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, string(status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete removes the project record. Returns domain.ErrNotFound when
// nothing was deleted.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM projects WHERE id = $1;`

	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var deadline sql.NullTime
	var status string
	err := row.Scan(&p.ID, &p.Seq, &p.Title, &p.CategoryID, &p.ShortDescription,
		&p.FullReadme, &deadline, &p.OwnerID, &status,
		(*pq.StringArray)(&p.SkillIDs), &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		t := deadline.Time
		p.Deadline = &t
	}
	p.Status = domain.Status(status)
	return &p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
