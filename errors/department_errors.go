package errors

import "errors"

var (
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrDepartmentCodeConflict = errors.New("department code already exists")
	ErrDepartmentHasUsers     = errors.New("department has assigned users")
)
