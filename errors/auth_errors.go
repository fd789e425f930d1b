package errors

import "errors"

var (
	ErrUnauthorized = errors.New("could not validate credentials")
	ErrInactiveUser = errors.New("inactive user")
	ErrRoleMismatch = errors.New("insufficient role")
	ErrUnknownRole  = errors.New("unknown role value")
)
