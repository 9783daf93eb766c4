package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/showfolio/showfolio-backend/internal/catalog"
	"github.com/showfolio/showfolio-backend/internal/projects/domain"
	"github.com/showfolio/showfolio-backend/internal/projects/repository"
)

// ProjectStore is the persistence surface the lifecycle service needs.
type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, f repository.ListFilter) ([]domain.Project, int, error)
	Update(ctx context.Context, id string, u repository.ProjectUpdate) (*domain.Project, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// ReferenceResolver validates and expands category/skill references.
type ReferenceResolver interface {
	ResolveCategory(ctx context.Context, id string) (catalog.CategoryRef, error)
	ResolveSkills(ctx context.Context, ids []string) ([]catalog.SkillRef, error)
	ExpandCategory(ctx context.Context, id string) (catalog.CategoryRef, error)
	ExpandSkills(ctx context.Context, ids []string) ([]catalog.SkillRef, error)
}

// ProjectService orchestrates the project lifecycle: create, get,
// list, update, status transitions and delete. Mutating operations
// check ownership before any write; a failed check leaves no side
// effects.
type ProjectService struct {
	projects ProjectStore
	images   *ImageManager
	refs     ReferenceResolver
}

func NewProjectService(projects ProjectStore, images *ImageManager, refs ReferenceResolver) *ProjectService {
	return &ProjectService{projects: projects, images: images, refs: refs}
}

// CreateProjectInput is the validated create payload.
type CreateProjectInput struct {
	Title            string
	CategoryID       string
	ShortDescription string
	FullReadme       string
	Deadline         *time.Time
	SkillIDs         []string
}

// UpdateProjectInput is a partial update: nil fields stay untouched.
type UpdateProjectInput struct {
	Title            *string
	CategoryID       *string
	ShortDescription *string
	FullReadme       *string
	Deadline         *time.Time
	Status           *string
	SkillIDs         *[]string
}

// ListInput is the raw listing query before validation.
type ListInput struct {
	Search   string
	Category string
	Status   string
	Skills   []string
	Page     int
	Limit    int
}

// ImageView is the expanded image reference.
type ImageView struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// ProjectView is the fully expanded read model.
type ProjectView struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Category         catalog.CategoryRef `json:"category"`
	ShortDescription string              `json:"shortDescription"`
	FullReadme       string              `json:"fullReadme"`
	Deadline         *time.Time          `json:"deadline,omitempty"`
	OwnerID          string              `json:"ownerId"`
	Status           string              `json:"status"`
	Skills           []catalog.SkillRef  `json:"skills"`
	Images           []ImageView         `json:"images"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// ProjectPreview is the list-friendly projection; it never carries the
// long-form readme.
type ProjectPreview struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	ShortDescription string             `json:"shortDescription"`
	Skills           []catalog.SkillRef `json:"skills"`
	Deadline         *time.Time         `json:"deadline,omitempty"`
	Status           string             `json:"status"`
	Images           []ImageView        `json:"images"`
}

// ListResult is the paginated preview envelope.
type ListResult struct {
	Items      []ProjectPreview `json:"items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// Create resolves the category and skill references, persists the
// project with status Planned, attaches the uploaded images and
// returns the expanded read model.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput, ownerID string, files []UploadFile) (*ProjectView, error) {
	catRef, err := s.refs.ResolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	skillRefs, err := s.refs.ResolveSkills(ctx, in.SkillIDs)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		ID:               uuid.New().String(),
		Title:            in.Title,
		CategoryID:       catRef.ID,
		ShortDescription: in.ShortDescription,
		FullReadme:       in.FullReadme,
		Deadline:         in.Deadline,
		OwnerID:          ownerID,
		Status:           domain.StatusPlanned,
		SkillIDs:         skillIDs(skillRefs),
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	imgs, err := s.images.Attach(ctx, p.ID, files)
	if err != nil {
		return nil, err
	}

	return projectView(p, catRef, skillRefs, imgs), nil
}

// GetByID returns the expanded read model. A malformed id fails before
// any store round-trip.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*ProjectView, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, p)
}

// List validates the filter and returns one page of previews.
func (s *ProjectService) List(ctx context.Context, in ListInput) (*ListResult, error) {
	f := repository.ListFilter{
		Search: in.Search,
		Page:   in.Page,
		Limit:  in.Limit,
	}

	if in.Category != "" {
		if _, err := uuid.Parse(in.Category); err != nil {
			return nil, fmt.Errorf("category %q: %w", in.Category, domain.ErrInvalidArgument)
		}
		f.CategoryID = in.Category
	}
	if in.Status != "" {
		status, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, fmt.Errorf("status %q: %w", in.Status, err)
		}
		f.Status = status
	}
	for _, id := range in.Skills {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("skill %q: %w", id, domain.ErrInvalidArgument)
		}
	}
	f.SkillIDs = in.Skills
	f.Normalize()

	items, total, err := s.projects.List(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	imagesByProject, err := s.images.ListByProjects(ctx, ids)
	if err != nil {
		return nil, err
	}

	previews := make([]ProjectPreview, 0, len(items))
	for _, p := range items {
		skills, err := s.refs.ExpandSkills(ctx, p.SkillIDs)
		if err != nil {
			return nil, err
		}
		previews = append(previews, ProjectPreview{
			ID:               p.ID,
			Title:            p.Title,
			ShortDescription: p.ShortDescription,
			Skills:           skills,
			Deadline:         p.Deadline,
			Status:           p.Status.String(),
			Images:           imageViews(imagesByProject[p.ID]),
		})
	}

	return &ListResult{
		Items:      previews,
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: repository.TotalPages(total, f.Limit),
	}, nil
}

// UpdateStatus sets the status field. Any of the four known values may
// be set from any other; the caller is not restricted to the owner.
func (s *ProjectService) UpdateStatus(ctx context.Context, id, status string) (*ProjectView, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("status %q: %w", status, err)
	}

	p, err := s.projects.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, p)
}

// Update applies a partial update. Only the owner may call it; the
// check happens before any field or file is touched. Supplied files
// replace the project's images slot by slot, extra files are attached.
func (s *ProjectService) Update(ctx context.Context, id string, in UpdateProjectInput, callerID string, files []UploadFile) (*ProjectView, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerID != p.OwnerID {
		return nil, domain.ErrForbidden
	}

	upd := repository.ProjectUpdate{
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		FullReadme:       in.FullReadme,
		Deadline:         in.Deadline,
	}

	if in.CategoryID != nil {
		catRef, err := s.refs.ResolveCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		upd.CategoryID = &catRef.ID
	}
	if in.SkillIDs != nil {
		skillRefs, err := s.refs.ResolveSkills(ctx, *in.SkillIDs)
		if err != nil {
			return nil, err
		}
		ids := skillIDs(skillRefs)
		upd.SkillIDs = &ids
	}
	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, fmt.Errorf("status %q: %w", *in.Status, err)
		}
		upd.Status = &status
	}

	updated, err := s.projects.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	if len(files) > 0 {
		existing, err := s.images.ListByProject(ctx, id)
		if err != nil {
			return nil, err
		}
		for i, f := range files {
			if i < len(existing) {
				if _, err := s.images.Replace(ctx, id, existing[i], f); err != nil {
					return nil, err
				}
			} else {
				if _, err := s.images.Attach(ctx, id, []UploadFile{f}); err != nil {
					return nil, err
				}
			}
		}
	}

	return s.expand(ctx, updated)
}

// Delete removes the project after an ownership check, cascading to
// its image records and their backing files. On success the caller
// gets an acknowledgement, not the deleted entity.
func (s *ProjectService) Delete(ctx context.Context, id, callerID string) error {
	if err := checkID(id); err != nil {
		return err
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if callerID != p.OwnerID {
		return domain.ErrForbidden
	}

	if err := s.images.DetachAll(ctx, id); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

func (s *ProjectService) expand(ctx context.Context, p *domain.Project) (*ProjectView, error) {
	catRef, err := s.refs.ExpandCategory(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	skillRefs, err := s.refs.ExpandSkills(ctx, p.SkillIDs)
	if err != nil {
		return nil, err
	}
	imgs, err := s.images.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return projectView(p, catRef, skillRefs, imgs), nil
}

func projectView(p *domain.Project, cat catalog.CategoryRef, skills []catalog.SkillRef, imgs []domain.Image) *ProjectView {
	if skills == nil {
		skills = []catalog.SkillRef{}
	}
	return &ProjectView{
		ID:               p.ID,
		Title:            p.Title,
		Category:         cat,
		ShortDescription: p.ShortDescription,
		FullReadme:       p.FullReadme,
		Deadline:         p.Deadline,
		OwnerID:          p.OwnerID,
		Status:           p.Status.String(),
		Skills:           skills,
		Images:           imageViews(imgs),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func imageViews(imgs []domain.Image) []ImageView {
	out := make([]ImageView, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, ImageView{ID: img.ID, Path: img.Path})
	}
	return out
}

func skillIDs(refs []catalog.SkillRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("id %q: %w", id, domain.ErrInvalidID)
	}
	return nil
}
