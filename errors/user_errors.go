package errors

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidUserData   = errors.New("invalid user data")
	ErrEmailConflict     = errors.New("email already registered")
	ErrUsernameConflict  = errors.New("username already taken")
	ErrDepartmentMissing = errors.New("department does not exist")
)
