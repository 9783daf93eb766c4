package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Resolver validates category and skill references before they are
// embedded in a project record, and looks names up for read-model
// expansion.
//
// Strict resolution always hits the store so a write can never attach
// a stale reference. Name lookups for expansion go through the cache:
// a category deleted upstream must not fail a read, it just loses its
// name.
type Resolver struct {
	repo  *Repository
	cache *Cache
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(repo *Repository, cache *Cache) *Resolver {
	return &Resolver{repo: repo, cache: cache}
}

// ResolveCategory fails with ErrCategoryNotFound unless id is a
// well-formed identifier resolving to an existing category.
func (r *Resolver) ResolveCategory(ctx context.Context, id string) (CategoryRef, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CategoryRef{}, fmt.Errorf("category %q: %w", id, ErrCategoryNotFound)
	}
	return r.repo.GetCategory(ctx, id)
}

// ResolveSkills resolves the whole batch or fails: if any one id is
// missing the call returns ErrSkillNotFound naming it. Duplicate ids
// count once.
func (r *Resolver) ResolveSkills(ctx context.Context, ids []string) ([]SkillRef, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return []SkillRef{}, nil
	}
	for _, id := range unique {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("skill %q: %w", id, ErrSkillNotFound)
		}
	}

	found, err := r.repo.GetSkills(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(found) != len(unique) {
		byID := make(map[string]struct{}, len(found))
		for _, s := range found {
			byID[s.ID] = struct{}{}
		}
		for _, id := range unique {
			if _, ok := byID[id]; !ok {
				return nil, fmt.Errorf("skill %s: %w", id, ErrSkillNotFound)
			}
		}
		return nil, ErrSkillNotFound
	}
	return found, nil
}

// Categories returns the full catalog, cache-aside.
func (r *Resolver) Categories(ctx context.Context) ([]CategoryRef, error) {
	if r.cache != nil {
		if refs, ok := r.cache.GetCategories(ctx); ok {
			return refs, nil
		}
	}
	refs, err := r.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.SetCategories(ctx, refs)
	}
	return refs, nil
}

// Skills returns the full catalog, cache-aside.
func (r *Resolver) Skills(ctx context.Context) ([]SkillRef, error) {
	if r.cache != nil {
		if refs, ok := r.cache.GetSkills(ctx); ok {
			return refs, nil
		}
	}
	refs, err := r.repo.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.SetSkills(ctx, refs)
	}
	return refs, nil
}

// ExpandCategory returns a name-bearing ref for the id. A reference
// whose category has since been deleted upstream keeps its id and an
// empty name rather than failing the read.
func (r *Resolver) ExpandCategory(ctx context.Context, id string) (CategoryRef, error) {
	if id == "" {
		return CategoryRef{}, nil
	}
	refs, err := r.Categories(ctx)
	if err != nil {
		return CategoryRef{}, err
	}
	for _, c := range refs {
		if c.ID == id {
			return c, nil
		}
	}
	return CategoryRef{ID: id}, nil
}

// ExpandSkills returns name-bearing refs for the ids, preserving input
// order. Ids missing from the catalog keep an empty name.
func (r *Resolver) ExpandSkills(ctx context.Context, ids []string) ([]SkillRef, error) {
	if len(ids) == 0 {
		return []SkillRef{}, nil
	}
	refs, err := r.Skills(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(refs))
	for _, s := range refs {
		byID[s.ID] = s.Name
	}
	out := make([]SkillRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, SkillRef{ID: id, Name: byID[id]})
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
