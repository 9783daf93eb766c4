package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/showfolio/showfolio-backend/internal/projects/service"
)

const (
	maxImageFiles = 5
	maxImageSize  = 4 << 20 // 4 MiB, per file
)

type createProjectReq struct {
	Title            string   `form:"title" binding:"required,min=3,max=30"`
	CategoryID       string   `form:"categoryId" binding:"required"`
	ShortDescription string   `form:"shortDescription" binding:"required,min=10,max=500"`
	FullReadme       string   `form:"fullReadme" binding:"omitempty,max=10000"`
	Deadline         string   `form:"deadline" binding:"omitempty"`
	Skills           []string `form:"skills" binding:"required"`
}

func (r *createProjectReq) toInput() (service.CreateProjectInput, error) {
	deadline, err := parseDeadline(r.Deadline)
	if err != nil {
		return service.CreateProjectInput{}, err
	}
	return service.CreateProjectInput{
		Title:            strings.TrimSpace(r.Title),
		CategoryID:       r.CategoryID,
		ShortDescription: strings.TrimSpace(r.ShortDescription),
		FullReadme:       r.FullReadme,
		Deadline:         deadline,
		SkillIDs:         splitIDList(r.Skills),
	}, nil
}

type updateProjectReq struct {
	Title            *string   `json:"title" binding:"omitempty,min=3,max=30"`
	CategoryID       *string   `json:"categoryId"`
	ShortDescription *string   `json:"shortDescription" binding:"omitempty,min=10,max=500"`
	FullReadme       *string   `json:"fullReadme" binding:"omitempty,max=10000"`
	Deadline         *string   `json:"deadline"`
	Status           *string   `json:"status"`
	Skills           *[]string `json:"skills"`
}

func (r *updateProjectReq) toInput() (service.UpdateProjectInput, error) {
	in := service.UpdateProjectInput{
		Title:            r.Title,
		CategoryID:       r.CategoryID,
		ShortDescription: r.ShortDescription,
		FullReadme:       r.FullReadme,
		Status:           r.Status,
	}
	if r.Deadline != nil {
		deadline, err := parseDeadline(*r.Deadline)
		if err != nil {
			return service.UpdateProjectInput{}, err
		}
		in.Deadline = deadline
	}
	if r.Skills != nil {
		ids := splitIDList(*r.Skills)
		in.SkillIDs = &ids
	}
	return in, nil
}

type listQuery struct {
	Search   string   `form:"search"`
	Category string   `form:"category"`
	Status   string   `form:"status"`
	Skills   []string `form:"skills"`
	Page     int      `form:"page,default=1"`
	Limit    int      `form:"limit,default=10"`
}

func (q *listQuery) toInput() service.ListInput {
	return service.ListInput{
		Search:   q.Search,
		Category: q.Category,
		Status:   q.Status,
		Skills:   splitIDList(q.Skills),
		Page:     q.Page,
		Limit:    q.Limit,
	}
}

// splitIDList accepts both repeated fields and comma-separated values
// and drops blanks.
func splitIDList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid deadline %q", s)
}
