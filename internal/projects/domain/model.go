package domain

import "time"

// Project is a single portfolio project owned by a user.
// It is intentionally storage-agnostic and used across repository,
// service and HTTP layers. CategoryID and SkillIDs are held as bare
// ids: both catalogs are owned by external collaborators and are only
// checked for existence when a reference is attached, never at read
// time.
type Project struct {
	ID               string
	Seq              int64
	Title            string
	CategoryID       string
	ShortDescription string
	FullReadme       string
	Deadline         *time.Time
	OwnerID          string
	Status           Status
	SkillIDs         []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Image is a stored file attached to a project. An image never
// outlives its project and is never shared between projects.
type Image struct {
	ID        string
	Path      string
	ProjectID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
