// model/user.go
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// UserRole is the closed set of built-in account roles. The integer value is
// what gets persisted and carried in token claims; the string code is derived
// from it. User accounts always hold one of these three values; custom Role
// rows exist in the catalog, but they are never assigned as an account role.
type UserRole int

const (
	RoleAdmin      UserRole = 1
	RoleOperations UserRole = 2
	RoleExecutive  UserRole = 3
)

var roleCodes = map[UserRole]string{
	RoleAdmin:      "ADMIN",
	RoleOperations: "OPERATIONS",
	RoleExecutive:  "CXO",
}

// ParseUserRole converts a raw integer into a UserRole. Unknown values are
// rejected rather than defaulted: an unmapped role in a user row is a
// data-integrity bug and callers must fail closed.
func ParseUserRole(v int) (UserRole, error) {
	r := UserRole(v)
	if _, ok := roleCodes[r]; !ok {
		return 0, fmt.Errorf("unknown role value %d", v)
	}
	return r, nil
}

// Code returns the role code used to join against the roles table
// (ADMIN, OPERATIONS, CXO). Empty for unmapped values.
func (r UserRole) Code() string {
	return roleCodes[r]
}

// Valid reports whether the value is one of the three built-in roles.
func (r UserRole) Valid() bool {
	_, ok := roleCodes[r]
	return ok
}

// User is an account in the credential store. Accounts are only ever
// soft-deleted so audit history keeps valid actor references.
type User struct {
	Base
	Email        string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string      `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	FullName     string      `gorm:"size:255" json:"full_name"`
	Role         UserRole    `gorm:"not null;default:2" json:"role"`
	DepartmentID *uuid.UUID  `gorm:"type:char(36);index" json:"department_id,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"-"`
}

func (User) TableName() string { return "users" }

// UserSummary is the user shape embedded in login responses and permission
// introspection payloads. Never includes the password hash.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Role     UserRole  `json:"role"`
}

// Summary builds the response-safe projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
