package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrUnknownField indicates the field is not editable or does not exist.
	ErrUnknownField = errors.New("unknown project field")
)
