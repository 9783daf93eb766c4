package http

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/showfolio/showfolio-backend/internal/auth"
	"github.com/showfolio/showfolio-backend/internal/catalog"
	"github.com/showfolio/showfolio-backend/internal/projects/domain"
	"github.com/showfolio/showfolio-backend/internal/projects/service"
)

// Service is the lifecycle surface the handlers depend on.
type Service interface {
	Create(ctx context.Context, in service.CreateProjectInput, ownerID string, files []service.UploadFile) (*service.ProjectView, error)
	GetByID(ctx context.Context, id string) (*service.ProjectView, error)
	List(ctx context.Context, in service.ListInput) (*service.ListResult, error)
	UpdateStatus(ctx context.Context, id, status string) (*service.ProjectView, error)
	Update(ctx context.Context, id string, in service.UpdateProjectInput, callerID string, files []service.UploadFile) (*service.ProjectView, error)
	Delete(ctx context.Context, id, callerID string) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	ownerID := auth.UserID(c)
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createProjectReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files, err := readUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.svc.Create(c.Request.Context(), in, ownerID, files)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": view})
}

func (h *Handler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	result, err := h.svc.List(c.Request.Context(), q.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getByID(c *gin.Context) {
	view, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": view})
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	view, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": view})
}

func (h *Handler) update(c *gin.Context) {
	callerID := auth.UserID(c)
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var in service.UpdateProjectInput
	var files []service.UploadFile

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
			return
		}
		in, err = updateInputFromForm(form)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		files, err = readUploads(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		var req updateProjectReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		var err error
		in, err = req.toInput()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	view, err := h.svc.Update(c.Request.Context(), c.Param("id"), in, callerID, files)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": view})
}

func (h *Handler) delete(c *gin.Context) {
	callerID := auth.UserID(c)
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// updateInputFromForm builds a partial update from a multipart form:
// only keys present in the form are applied.
func updateInputFromForm(form *multipart.Form) (service.UpdateProjectInput, error) {
	var in service.UpdateProjectInput

	get := func(key string) *string {
		if vals, ok := form.Value[key]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}

	if v := get("title"); v != nil {
		t := strings.TrimSpace(*v)
		if len(t) < 3 || len(t) > 30 {
			return in, errors.New("title must be 3-30 characters")
		}
		in.Title = &t
	}
	if v := get("shortDescription"); v != nil {
		d := strings.TrimSpace(*v)
		if len(d) < 10 || len(d) > 500 {
			return in, errors.New("shortDescription must be 10-500 characters")
		}
		in.ShortDescription = &d
	}
	if v := get("fullReadme"); v != nil {
		if len(*v) > 10000 {
			return in, errors.New("fullReadme must be at most 10000 characters")
		}
		in.FullReadme = v
	}
	if v := get("categoryId"); v != nil {
		in.CategoryID = v
	}
	if v := get("status"); v != nil {
		in.Status = v
	}
	if v := get("deadline"); v != nil {
		deadline, err := parseDeadline(*v)
		if err != nil {
			return in, err
		}
		in.Deadline = deadline
	}
	if vals, ok := form.Value["skills"]; ok {
		ids := splitIDList(vals)
		in.SkillIDs = &ids
	}

	return in, nil
}

// readUploads collects the "image" files from the multipart form,
// enforcing the count, size and mime constraints of the boundary.
func readUploads(c *gin.Context) ([]service.UploadFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, errors.New("invalid form")
	}

	headers := form.File["image"]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > maxImageFiles {
		return nil, errors.New("at most 5 images per request")
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxImageSize {
			return nil, errors.New("image exceeds the 4 MiB limit")
		}
		if ct := fh.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
			return nil, errors.New("only images are allowed")
		}

		f, err := fh.Open()
		if err != nil {
			return nil, errors.New("failed to read upload")
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
		f.Close()
		if err != nil {
			return nil, errors.New("failed to read upload")
		}
		if len(data) > maxImageSize {
			return nil, errors.New("image exceeds the 4 MiB limit")
		}

		files = append(files, service.UploadFile{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrImageNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrSkillNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("project handler error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
