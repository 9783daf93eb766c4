package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository provides persistence operations for the category and
// skill catalogs. Both are read-mostly: the API only reads them,
// writes happen through the seeder.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCategory(ctx context.Context, id string) (CategoryRef, error) {
	const q = `SELECT id, name FROM categories WHERE id = $1;`

	var c CategoryRef
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CategoryRef{}, ErrCategoryNotFound
		}
		return CategoryRef{}, err
	}
	return c, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]CategoryRef, error) {
	const q = `SELECT id, name FROM categories ORDER BY name;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CategoryRef, 0, 16)
	for rows.Next() {
		var c CategoryRef
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSkills returns the skills matching the given ids. Missing ids are
// simply absent from the result; the resolver owns the cardinality
// check.
func (r *Repository) GetSkills(ctx context.Context, ids []string) ([]SkillRef, error) {
	if len(ids) == 0 {
		return []SkillRef{}, nil
	}

	const q = `SELECT id, name FROM skills WHERE id = ANY($1::uuid[]);`

	rows, err := r.db.QueryContext(ctx, q, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillRef, 0, len(ids))
	for rows.Next() {
		var s SkillRef
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ListSkills(ctx context.Context) ([]SkillRef, error) {
	const q = `SELECT id, name FROM skills ORDER BY name;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillRef, 0, 32)
	for rows.Next() {
		var s SkillRef
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SeedCategories replaces the category catalog with the given names.
// No-op when the catalog already holds exactly that many entries.
func (r *Repository) SeedCategories(ctx context.Context, names []string) error {
	return r.seed(ctx, "categories", names)
}

// SeedSkills replaces the skill catalog with the given names.
func (r *Repository) SeedSkills(ctx context.Context, names []string) error {
	return r.seed(ctx, "skills", names)
}

func (r *Repository) seed(ctx context.Context, table string, names []string) error {
	var count int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s;`, table)).Scan(&count); err != nil {
		return err
	}
	if count == len(names) {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s;`, table)); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, name) VALUES ($1, $2);`, table),
			uuid.New().String(), name); err != nil {
			return err
		}
	}

	return tx.Commit()
}
