// model/permission.go
package model

// PermissionCategory groups permissions for the admin UI.
type PermissionCategory string

const (
	CategoryReconciliation       PermissionCategory = "reconciliation"
	CategoryDashboard            PermissionCategory = "dashboard"
	CategoryReports              PermissionCategory = "reports"
	CategoryUserManagement       PermissionCategory = "user_management"
	CategoryDepartmentManagement PermissionCategory = "department_management"
	CategorySystem               PermissionCategory = "system"
)

// PermissionAction is the action kind a permission grants on its resource.
type PermissionAction string

const (
	ActionCreate  PermissionAction = "create"
	ActionRead    PermissionAction = "read"
	ActionUpdate  PermissionAction = "update"
	ActionDelete  PermissionAction = "delete"
	ActionExecute PermissionAction = "execute"
)

// Permission is one granular capability, named by a dotted code such as
// "reconciliation.file.upload". The set is provisioned at bootstrap and is
// immutable through the API.
type Permission struct {
	Base
	Code        string             `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Name        string             `gorm:"size:100;not null" json:"name"`
	Description string             `gorm:"size:255" json:"description"`
	Category    PermissionCategory `gorm:"size:50;not null" json:"category"`
	Action      PermissionAction   `gorm:"size:50;not null" json:"action"`
	Resource    string             `gorm:"size:100;not null" json:"resource"`

	Roles []Role `gorm:"many2many:role_permissions" json:"-"`
}

func (Permission) TableName() string { return "permissions" }

// Role is a named permission set. The three system roles (ADMIN, OPERATIONS,
// CXO) can be edited but never deleted; custom roles are fully managed
// through the API.
type Role struct {
	Base
	Code         string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Description  string `gorm:"size:255" json:"description"`
	IsSystemRole bool   `gorm:"not null;default:false" json:"is_system_role"`

	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

func (Role) TableName() string { return "roles" }
