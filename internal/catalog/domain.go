package catalog

import "errors"

// CategoryRef is a resolved category reference.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SkillRef is a resolved skill reference.
type SkillRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSkillNotFound    = errors.New("one or more skills not found")
)
