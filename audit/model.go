// audit/model.go
package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/revguard/api/model"
)

// ActionType is the closed enumeration of auditable actions.
type ActionType string

const (
	// Authentication
	ActionLogin          ActionType = "login"
	ActionLogout         ActionType = "logout"
	ActionLoginFailed    ActionType = "login_failed"
	ActionPasswordChange ActionType = "password_change"

	// User management
	ActionUserCreate     ActionType = "user_create"
	ActionUserUpdate     ActionType = "user_update"
	ActionUserDelete     ActionType = "user_delete"
	ActionUserActivate   ActionType = "user_activate"
	ActionUserDeactivate ActionType = "user_deactivate"

	// Role & permissions
	ActionRoleAssign       ActionType = "role_assign"
	ActionPermissionChange ActionType = "permission_change"

	// Data operations
	ActionDataUpload        ActionType = "data_upload"
	ActionDataImport        ActionType = "data_import"
	ActionDataExport        ActionType = "data_export"
	ActionReconciliationRun ActionType = "reconciliation_run"

	// System
	ActionSettingChange ActionType = "setting_change"
	ActionSystemUpdate  ActionType = "system_update"

	// Errors
	ActionErrorOccurred   ActionType = "error_occurred"
	ActionExceptionRaised ActionType = "exception_raised"
)

// ResourceType names the kind of entity an action touched.
type ResourceType string

const (
	ResourceUser       ResourceType = "user"
	ResourceRole       ResourceType = "role"
	ResourcePermission ResourceType = "permission"
	ResourceDepartment ResourceType = "department"
	ResourceDataFile   ResourceType = "data_file"
	ResourceReport     ResourceType = "report"
	ResourceSetting    ResourceType = "setting"
	ResourceSystem     ResourceType = "system"
)

// Status is the outcome of the audited action.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusError   Status = "error"
)

// Severity grades error entries. Only meaningful when Status is StatusError.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Log is one append-only audit trail entry. Entries are never mutated or
// deleted once written; the user reference is non-owning so soft-deleted
// actors keep their history.
type Log struct {
	ID           uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Timestamp    time.Time      `gorm:"not null;index" json:"timestamp"`
	UserID       *uuid.UUID     `gorm:"type:char(36);index" json:"user_id,omitempty"`
	ActionType   ActionType     `gorm:"size:50;not null;index" json:"action_type"`
	ResourceType ResourceType   `gorm:"size:50;index" json:"resource_type,omitempty"`
	ResourceID   string         `gorm:"size:255" json:"resource_id,omitempty"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	IPAddress    string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent    string         `gorm:"type:text" json:"user_agent,omitempty"`
	Status       Status         `gorm:"size:20;not null;default:success" json:"status"`
	Severity     Severity       `gorm:"size:20;index" json:"severity,omitempty"`
	ErrorType    string         `gorm:"size:255;index" json:"error_type,omitempty"`
	StackTrace   string         `gorm:"type:text" json:"stack_trace,omitempty"`
	ExtraData    datatypes.JSON `json:"extra_data,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	User *model.User `gorm:"foreignKey:UserID" json:"-"`
}

func (Log) TableName() string { return "audit_logs" }

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}

// View is the response shape for the audit query surface, joining the actor's
// email and name when the entry has one.
type View struct {
	Log
	UserEmail    string `json:"user_email,omitempty"`
	UserFullName string `json:"user_full_name,omitempty"`
}

// AsView projects the entry with its joined actor fields.
func (l Log) AsView() View {
	v := View{Log: l}
	if l.User != nil {
		v.UserEmail = l.User.Email
		v.UserFullName = l.User.FullName
	}
	v.User = nil
	return v
}
