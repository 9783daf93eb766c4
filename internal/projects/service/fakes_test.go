package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/showfolio/showfolio-backend/internal/catalog"
	"github.com/showfolio/showfolio-backend/internal/projects/domain"
	"github.com/showfolio/showfolio-backend/internal/projects/repository"
)

// fakeProjectStore mirrors the repository's filter and ordering
// semantics in memory so service tests exercise real pagination.
type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[string]domain.Project
	nextSeq  int64

	getCalls int
	failNext error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]domain.Project)}
}

func (s *fakeProjectStore) Create(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	for _, existing := range s.projects {
		if existing.OwnerID == p.OwnerID && existing.Title == p.Title {
			return fmt.Errorf("title %q: %w", p.Title, domain.ErrConflict)
		}
	}
	s.nextSeq++
	p.Seq = s.nextSeq
	s.projects[p.ID] = *p
	return nil
}

func (s *fakeProjectStore) GetByID(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *fakeProjectStore) List(_ context.Context, f repository.ListFilter) ([]domain.Project, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if !s.matches(p, f) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Seq > matched[j].Seq
	})

	total := len(matched)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *fakeProjectStore) matches(p domain.Project, f repository.ListFilter) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		q = strings.ToLower(q)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.ShortDescription), q) &&
			!strings.Contains(strings.ToLower(p.FullReadme), q) {
			return false
		}
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	for _, want := range f.SkillIDs {
		found := false
		for _, have := range p.SkillIDs {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *fakeProjectStore) Update(_ context.Context, id string, u repository.ProjectUpdate) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.CategoryID != nil {
		p.CategoryID = *u.CategoryID
	}
	if u.ShortDescription != nil {
		p.ShortDescription = *u.ShortDescription
	}
	if u.FullReadme != nil {
		p.FullReadme = *u.FullReadme
	}
	if u.Deadline != nil {
		p.Deadline = u.Deadline
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.SkillIDs != nil {
		p.SkillIDs = *u.SkillIDs
	}
	s.projects[id] = p
	return &p, nil
}

func (s *fakeProjectStore) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Status = status
	s.projects[id] = p
	return &p, nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// fakeImageStore keeps image records in insertion order.
type fakeImageStore struct {
	mu      sync.Mutex
	records []domain.Image

	failInsert error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{}
}

func (s *fakeImageStore) Insert(_ context.Context, img *domain.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		err := s.failInsert
		s.failInsert = nil
		return err
	}
	s.records = append(s.records, *img)
	return nil
}

func (s *fakeImageStore) ListByProject(_ context.Context, projectID string) ([]domain.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Image, 0)
	for _, img := range s.records {
		if img.ProjectID == projectID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (s *fakeImageStore) ListByProjects(_ context.Context, projectIDs []string) (map[string][]domain.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		want[id] = true
	}
	out := make(map[string][]domain.Image)
	for _, img := range s.records {
		if want[img.ProjectID] {
			out[img.ProjectID] = append(out[img.ProjectID], img)
		}
	}
	return out, nil
}

func (s *fakeImageStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, img := range s.records {
		if img.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrImageNotFound
}

func (s *fakeImageStore) DeleteByProject(_ context.Context, projectID string) ([]domain.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := make([]domain.Image, 0)
	kept := s.records[:0]
	for _, img := range s.records {
		if img.ProjectID == projectID {
			deleted = append(deleted, img)
		} else {
			kept = append(kept, img)
		}
	}
	s.records = kept
	return deleted, nil
}

// fakeBlobStore records saved files so tests can assert nothing is
// orphaned on disk after a failed or cascaded operation.
type fakeBlobStore struct {
	mu    sync.Mutex
	files map[string][]byte
	saves int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{files: make(map[string][]byte)}
}

func (s *fakeBlobStore) Save(originalName string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	name := fmt.Sprintf("stored-%d-%s", s.saves, originalName)
	s.files[name] = data
	return name, nil
}

func (s *fakeBlobStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("remove file: %s not stored", name)
	}
	delete(s.files, name)
	return nil
}

func (s *fakeBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// fakeResolver serves a fixed catalog. Resolve* fails on unknown ids,
// Expand* tolerates them the way the real resolver does.
type fakeResolver struct {
	categories map[string]string
	skills     map[string]string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		categories: map[string]string{},
		skills:     map[string]string{},
	}
}

func (r *fakeResolver) ResolveCategory(_ context.Context, id string) (catalog.CategoryRef, error) {
	name, ok := r.categories[id]
	if !ok {
		return catalog.CategoryRef{}, fmt.Errorf("category %q: %w", id, catalog.ErrCategoryNotFound)
	}
	return catalog.CategoryRef{ID: id, Name: name}, nil
}

func (r *fakeResolver) ResolveSkills(_ context.Context, ids []string) ([]catalog.SkillRef, error) {
	out := make([]catalog.SkillRef, 0, len(ids))
	for _, id := range ids {
		name, ok := r.skills[id]
		if !ok {
			return nil, fmt.Errorf("skill %q: %w", id, catalog.ErrSkillNotFound)
		}
		out = append(out, catalog.SkillRef{ID: id, Name: name})
	}
	return out, nil
}

func (r *fakeResolver) ExpandCategory(_ context.Context, id string) (catalog.CategoryRef, error) {
	return catalog.CategoryRef{ID: id, Name: r.categories[id]}, nil
}

func (r *fakeResolver) ExpandSkills(_ context.Context, ids []string) ([]catalog.SkillRef, error) {
	out := make([]catalog.SkillRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalog.SkillRef{ID: id, Name: r.skills[id]})
	}
	return out, nil
}
