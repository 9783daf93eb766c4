package domain

import "errors"

var (
	ErrNotFound        = errors.New("project not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("duplicate value")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrInvalidArgument = errors.New("invalid argument")
)
