package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showfolio/showfolio-backend/internal/catalog"
	"github.com/showfolio/showfolio-backend/internal/projects/domain"
)

const (
	catWebID    = "6f1e9b1c-9b9a-4f6e-8a32-111111111111"
	skillGoID   = "9d3f1a2b-0c4d-4e5f-8a6b-333333333333"
	skillGinID  = "9d3f1a2b-0c4d-4e5f-8a6b-444444444444"
	unknownUUID = "00000000-0000-4000-8000-999999999999"
)

type serviceFixture struct {
	svc      *ProjectService
	projects *fakeProjectStore
	images   *fakeImageStore
	blobs    *fakeBlobStore
	refs     *fakeResolver
}

func newServiceFixture() *serviceFixture {
	projects := newFakeProjectStore()
	images := newFakeImageStore()
	blobs := newFakeBlobStore()
	refs := newFakeResolver()
	refs.categories[catWebID] = "Web Development"
	refs.skills[skillGoID] = "Go"
	refs.skills[skillGinID] = "Gin"

	return &serviceFixture{
		svc:      NewProjectService(projects, NewImageManager(images, blobs), refs),
		projects: projects,
		images:   images,
		blobs:    blobs,
		refs:     refs,
	}
}

func (f *serviceFixture) mustCreate(t *testing.T, title, owner string, files []UploadFile) *ProjectView {
	t.Helper()
	view, err := f.svc.Create(context.Background(), CreateProjectInput{
		Title:            title,
		CategoryID:       catWebID,
		ShortDescription: "a short description",
		SkillIDs:         []string{skillGoID},
	}, owner, files)
	require.NoError(t, err)
	return view
}

func TestProjectService_Create(t *testing.T) {
	t.Run("new project starts as Planned with resolved references", func(t *testing.T) {
		f := newServiceFixture()

		view, err := f.svc.Create(context.Background(), CreateProjectInput{
			Title:            "My portfolio",
			CategoryID:       catWebID,
			ShortDescription: "a short description",
			FullReadme:       "# readme",
			SkillIDs:         []string{skillGoID, skillGinID},
		}, "owner-1", []UploadFile{{Name: "cover.png", Data: []byte("img")}})
		require.NoError(t, err)

		assert.Equal(t, "Planned", view.Status)
		assert.Equal(t, "owner-1", view.OwnerID)
		assert.Equal(t, catalog.CategoryRef{ID: catWebID, Name: "Web Development"}, view.Category)
		require.Len(t, view.Skills, 2)
		assert.Equal(t, "Go", view.Skills[0].Name)
		require.Len(t, view.Images, 1)
		assert.Equal(t, 1, f.blobs.count())
	})

	t.Run("unknown skill fails before anything is written", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.svc.Create(context.Background(), CreateProjectInput{
			Title:            "My portfolio",
			CategoryID:       catWebID,
			ShortDescription: "a short description",
			SkillIDs:         []string{skillGoID, unknownUUID},
		}, "owner-1", []UploadFile{{Name: "cover.png", Data: []byte("img")}})

		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrSkillNotFound)
		assert.Contains(t, err.Error(), unknownUUID)
		assert.Empty(t, f.projects.projects)
		assert.Zero(t, f.blobs.count())
	})

	t.Run("unknown category fails before anything is written", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.svc.Create(context.Background(), CreateProjectInput{
			Title:            "My portfolio",
			CategoryID:       unknownUUID,
			ShortDescription: "a short description",
			SkillIDs:         []string{skillGoID},
		}, "owner-1", nil)

		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
		assert.Empty(t, f.projects.projects)
	})

	t.Run("duplicate title for the same owner conflicts", func(t *testing.T) {
		f := newServiceFixture()
		f.mustCreate(t, "Same title", "owner-1", nil)

		_, err := f.svc.Create(context.Background(), CreateProjectInput{
			Title:            "Same title",
			CategoryID:       catWebID,
			ShortDescription: "a short description",
			SkillIDs:         []string{skillGoID},
		}, "owner-1", nil)

		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestProjectService_GetByID(t *testing.T) {
	f := newServiceFixture()
	created := f.mustCreate(t, "My portfolio", "owner-1", nil)

	t.Run("returns the expanded project", func(t *testing.T) {
		view, err := f.svc.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "My portfolio", view.Title)
		assert.Equal(t, "Web Development", view.Category.Name)
	})

	t.Run("malformed id fails before the store is hit", func(t *testing.T) {
		before := f.projects.getCalls

		_, err := f.svc.GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
		assert.Equal(t, before, f.projects.getCalls)
	})

	t.Run("absent project is not found", func(t *testing.T) {
		_, err := f.svc.GetByID(context.Background(), unknownUUID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectService_List(t *testing.T) {
	t.Run("paginates newest first", func(t *testing.T) {
		f := newServiceFixture()
		f.mustCreate(t, "First", "owner-1", nil)
		f.mustCreate(t, "Second", "owner-1", nil)
		f.mustCreate(t, "Third", "owner-1", nil)

		res, err := f.svc.List(context.Background(), ListInput{Page: 2, Limit: 2})
		require.NoError(t, err)

		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 2, res.TotalPages)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "First", res.Items[0].Title)
	})

	t.Run("filters by skill containment", func(t *testing.T) {
		f := newServiceFixture()
		f.mustCreate(t, "Go only", "owner-1", nil)

		_, err := f.svc.Create(context.Background(), CreateProjectInput{
			Title:            "Go and Gin",
			CategoryID:       catWebID,
			ShortDescription: "a short description",
			SkillIDs:         []string{skillGoID, skillGinID},
		}, "owner-1", nil)
		require.NoError(t, err)

		res, err := f.svc.List(context.Background(), ListInput{Skills: []string{skillGoID, skillGinID}})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Go and Gin", res.Items[0].Title)
	})

	t.Run("previews carry expanded skills and images", func(t *testing.T) {
		f := newServiceFixture()
		f.mustCreate(t, "With cover", "owner-1", []UploadFile{{Name: "cover.png", Data: []byte("img")}})

		res, err := f.svc.List(context.Background(), ListInput{})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		require.Len(t, res.Items[0].Skills, 1)
		assert.Equal(t, "Go", res.Items[0].Skills[0].Name)
		assert.Len(t, res.Items[0].Images, 1)
	})

	t.Run("malformed category id is rejected", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.List(context.Background(), ListInput{Category: "not-a-uuid"})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("malformed skill id is rejected", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.List(context.Background(), ListInput{Skills: []string{"nope"}})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.List(context.Background(), ListInput{Status: "Abandoned"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestProjectService_UpdateStatus(t *testing.T) {
	f := newServiceFixture()
	created := f.mustCreate(t, "My portfolio", "owner-1", nil)

	t.Run("moves between any known statuses", func(t *testing.T) {
		view, err := f.svc.UpdateStatus(context.Background(), created.ID, "completed")
		require.NoError(t, err)
		assert.Equal(t, "Completed", view.Status)

		view, err = f.svc.UpdateStatus(context.Background(), created.ID, "Planned")
		require.NoError(t, err)
		assert.Equal(t, "Planned", view.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(context.Background(), created.ID, "Shipped")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(context.Background(), "nope", "Completed")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

func TestProjectService_Update(t *testing.T) {
	t.Run("owner updates supplied fields only", func(t *testing.T) {
		f := newServiceFixture()
		created := f.mustCreate(t, "My portfolio", "owner-1", nil)

		title := "Renamed"
		status := "In progress"
		view, err := f.svc.Update(context.Background(), created.ID,
			UpdateProjectInput{Title: &title, Status: &status}, "owner-1", nil)
		require.NoError(t, err)

		assert.Equal(t, "Renamed", view.Title)
		assert.Equal(t, "In progress", view.Status)
		assert.Equal(t, created.ShortDescription, view.ShortDescription)
	})

	t.Run("non-owner is rejected with no side effects", func(t *testing.T) {
		f := newServiceFixture()
		created := f.mustCreate(t, "My portfolio", "owner-1", nil)

		title := "Hijacked"
		_, err := f.svc.Update(context.Background(), created.ID,
			UpdateProjectInput{Title: &title}, "intruder",
			[]UploadFile{{Name: "x.png", Data: []byte("img")}})

		assert.ErrorIs(t, err, domain.ErrForbidden)

		after, getErr := f.svc.GetByID(context.Background(), created.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "My portfolio", after.Title)
		assert.Zero(t, f.blobs.count())
	})

	t.Run("new skills must all resolve", func(t *testing.T) {
		f := newServiceFixture()
		created := f.mustCreate(t, "My portfolio", "owner-1", nil)

		skills := []string{unknownUUID}
		_, err := f.svc.Update(context.Background(), created.ID,
			UpdateProjectInput{SkillIDs: &skills}, "owner-1", nil)
		assert.ErrorIs(t, err, catalog.ErrSkillNotFound)

		after, getErr := f.svc.GetByID(context.Background(), created.ID)
		require.NoError(t, getErr)
		require.Len(t, after.Skills, 1)
		assert.Equal(t, skillGoID, after.Skills[0].ID)
	})

	t.Run("files replace existing images slot by slot", func(t *testing.T) {
		f := newServiceFixture()
		created := f.mustCreate(t, "My portfolio", "owner-1",
			[]UploadFile{{Name: "old.png", Data: []byte("old")}})
		oldImage := created.Images[0]

		view, err := f.svc.Update(context.Background(), created.ID, UpdateProjectInput{},
			"owner-1", []UploadFile{
				{Name: "new.png", Data: []byte("new")},
				{Name: "extra.png", Data: []byte("extra")},
			})
		require.NoError(t, err)

		require.Len(t, view.Images, 2)
		for _, img := range view.Images {
			assert.NotEqual(t, oldImage.ID, img.ID)
			assert.NotEqual(t, oldImage.Path, img.Path)
		}
		// one replaced, one attached: two files on disk, old one gone
		assert.Equal(t, 2, f.blobs.count())
	})
}

func TestProjectService_Delete(t *testing.T) {
	t.Run("owner delete cascades to image records and files", func(t *testing.T) {
		f := newServiceFixture()
		created := f.mustCreate(t, "My portfolio", "owner-1", []UploadFile{
			{Name: "a.png", Data: []byte("a")},
			{Name: "b.png", Data: []byte("b")},
		})
		require.Equal(t, 2, f.blobs.count())

		require.NoError(t, f.svc.Delete(context.Background(), created.ID, "owner-1"))

		_, err := f.svc.GetByID(context.Background(), created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.images.records)
		assert.Zero(t, f.blobs.count())
	})

	t.Run("non-owner delete is rejected and leaves everything", func(t *testing.T) {
		f := newServiceFixture()
		created := f.mustCreate(t, "My portfolio", "owner-1",
			[]UploadFile{{Name: "a.png", Data: []byte("a")}})

		err := f.svc.Delete(context.Background(), created.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, getErr := f.svc.GetByID(context.Background(), created.ID)
		assert.NoError(t, getErr)
		assert.Len(t, f.images.records, 1)
		assert.Equal(t, 1, f.blobs.count())
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		f := newServiceFixture()
		err := f.svc.Delete(context.Background(), "nope", "owner-1")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

// Deadline round-trips through create and update untouched.
func TestProjectService_Deadline(t *testing.T) {
	f := newServiceFixture()
	deadline := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	view, err := f.svc.Create(context.Background(), CreateProjectInput{
		Title:            "Dated",
		CategoryID:       catWebID,
		ShortDescription: "a short description",
		Deadline:         &deadline,
		SkillIDs:         []string{skillGoID},
	}, "owner-1", nil)
	require.NoError(t, err)
	require.NotNil(t, view.Deadline)
	assert.True(t, view.Deadline.Equal(deadline))
}
