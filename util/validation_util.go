// util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/revguard/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if user.Email == "" {
		return fmt.Errorf("user email cannot be empty")
	}
	if !strings.Contains(user.Email, "@") {
		return fmt.Errorf("user email is not a valid address")
	}
	if user.Username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if !user.Role.Valid() {
		return fmt.Errorf("role value %d is not a known role", user.Role)
	}
	return nil
}

// ValidatePassword enforces the minimum credential policy: at least eight
// characters with one upper-case letter, one lower-case letter and one digit.
func (v *ValidationUtil) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return fmt.Errorf("password must contain upper-case, lower-case and numeric characters")
	}
	return nil
}

func (v *ValidationUtil) ValidateDepartment(department model.Department) error {
	if department.Name == "" {
		return fmt.Errorf("department name cannot be empty")
	}
	if department.Code == "" {
		return fmt.Errorf("department code cannot be empty")
	}
	if len(department.Code) > 50 {
		return fmt.Errorf("department code cannot exceed 50 characters")
	}
	return nil
}

func (v *ValidationUtil) ValidateRole(role model.Role) error {
	if role.Name == "" {
		return fmt.Errorf("role name cannot be empty")
	}
	if role.Code == "" {
		return fmt.Errorf("role code cannot be empty")
	}
	if role.Code != strings.ToUpper(role.Code) {
		return fmt.Errorf("role code must be upper case")
	}
	return nil
}
