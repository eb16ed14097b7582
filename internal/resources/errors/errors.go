package errors

import "errors"

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidID = errors.New("invalid resource ID format")

	// Tenant isolation: the resource exists but belongs to another project.
	ErrDoesNotBelongToProject = errors.New("resource does not belong to project")
)
