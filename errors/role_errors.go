package errors

import "errors"

var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleCodeConflict   = errors.New("role code already exists")
	ErrSystemRoleDelete   = errors.New("system roles cannot be deleted")
	ErrPermissionNotFound = errors.New("permission not found")
)
