package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/showfolio/showfolio-backend/internal/projects/domain"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ListFilter is the structured listing query. Ids and status are
// validated by the service before the filter reaches the repository;
// here the fields only select SQL fragments.
type ListFilter struct {
	Search     string
	CategoryID string
	Status     domain.Status
	SkillIDs   []string
	Page       int
	Limit      int
}

// Normalize applies defaults and clamps: page >= 1, limit in [1,100]
// with a default of 10.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}

func (f *ListFilter) offset() int {
	return (f.Page - 1) * f.Limit
}

// whereClause renders the filter as a WHERE fragment with positional
// args. An empty filter yields an empty fragment.
func (f *ListFilter) whereClause() (string, []any) {
	var conds []string
	var args []any

	if s := strings.TrimSpace(f.Search); s != "" {
		// The search term is matched literally: LIKE metacharacters
		// are escaped so user input can never act as a pattern.
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%d OR short_description ILIKE $%d OR full_readme ILIKE $%d)", n, n, n))
	}

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}

	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(f.SkillIDs) > 0 {
		// all-of: the project's skill set must contain every requested id
		args = append(args, pq.Array(f.SkillIDs))
		conds = append(conds, fmt.Sprintf("skills @> $%d::uuid[]", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// TotalPages is max(1, ceil(total/limit)).
func TotalPages(total, limit int) int {
	if total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
