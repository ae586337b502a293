package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionNotMet = errors.New("required upstream records are missing")
	ErrEmptyScript        = errors.New("script text is empty")
)
