// seed/seed.go
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/revguard/api/auth"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
)

// permissionSpec is one catalog entry to provision at bootstrap.
type permissionSpec struct {
	Code        string
	Name        string
	Description string
	Category    model.PermissionCategory
	Action      model.PermissionAction
	Resource    string
}

// systemPermissions is the full permission catalog. Codes are stable
// identifiers; checks in application code refer to them literally.
var systemPermissions = []permissionSpec{
	// Reconciliation (operations)
	{"reconciliation.file.upload", "Upload Files", "Upload fine data files (Excel, CSV, JSON)", model.CategoryReconciliation, model.ActionExecute, "fine_data_file"},
	{"reconciliation.data.read", "View Data Grid", "View fine data grid and records", model.CategoryReconciliation, model.ActionRead, "fine_data"},
	{"reconciliation.data.update", "Edit Data Grid", "Edit fine data records in grid", model.CategoryReconciliation, model.ActionUpdate, "fine_data"},
	{"reconciliation.file.delete", "Delete Files", "Delete uploaded fine data files", model.CategoryReconciliation, model.ActionDelete, "fine_data_file"},
	{"reconciliation.summary.read", "View Reconciliation Summary", "View reconciliation engine results and matching", model.CategoryReconciliation, model.ActionRead, "reconciliation_summary"},
	{"reconciliation.data.validate", "Validate Data", "Run data validation checks", model.CategoryReconciliation, model.ActionExecute, "fine_data"},
	{"reconciliation.data.submit", "Submit for Approval", "Submit reconciliation data for approval", model.CategoryReconciliation, model.ActionExecute, "reconciliation_summary"},
	{"reconciliation.ai.error_detection", "AI Error Detection", "Access AI-powered error detection features", model.CategoryReconciliation, model.ActionRead, "ai_error_detection"},

	// Dashboard (executive)
	{"dashboard.executive.read", "View Executive Dashboard", "Access executive dashboard with KPIs", model.CategoryDashboard, model.ActionRead, "executive_dashboard"},
	{"dashboard.revenue_trends.read", "View Revenue Trends", "View revenue trend analysis and charts", model.CategoryDashboard, model.ActionRead, "revenue_trends"},
	{"dashboard.ai_insights.read", "View AI Insights", "Access AI-powered insights and recommendations", model.CategoryDashboard, model.ActionRead, "ai_insights"},
	{"dashboard.collection_performance.read", "View Collection Performance", "View collection performance metrics by emirate/week", model.CategoryDashboard, model.ActionRead, "collection_performance"},

	// Reports
	{"reports.export", "Export Reports", "Export reports and data to various formats", model.CategoryReports, model.ActionExecute, "reports"},
	{"reports.fine_issue.read", "View Fine Issue Report", "View fine issue report data", model.CategoryReports, model.ActionRead, "fine_issue_report"},
	{"reports.fine_collection.read", "View Fine Collection Report", "View fine collection report data", model.CategoryReports, model.ActionRead, "fine_collection_report"},

	// User management (admin)
	{"users.create", "Create Users", "Create new user accounts", model.CategoryUserManagement, model.ActionCreate, "users"},
	{"users.read", "View Users", "View user accounts and details", model.CategoryUserManagement, model.ActionRead, "users"},
	{"users.update", "Update Users", "Update user account information", model.CategoryUserManagement, model.ActionUpdate, "users"},
	{"users.delete", "Delete Users", "Delete user accounts", model.CategoryUserManagement, model.ActionDelete, "users"},

	// Department management (admin)
	{"departments.create", "Create Departments", "Create new departments", model.CategoryDepartmentManagement, model.ActionCreate, "departments"},
	{"departments.read", "View Departments", "View department information", model.CategoryDepartmentManagement, model.ActionRead, "departments"},
	{"departments.update", "Update Departments", "Update department information", model.CategoryDepartmentManagement, model.ActionUpdate, "departments"},
	{"departments.delete", "Delete Departments", "Delete departments", model.CategoryDepartmentManagement, model.ActionDelete, "departments"},

	// System (admin)
	{"system.audit_logs.read", "View Audit Logs", "Access system audit logs", model.CategorySystem, model.ActionRead, "audit_logs"},
	{"system.settings.update", "Update System Settings", "Modify system configuration", model.CategorySystem, model.ActionUpdate, "system_settings"},
}

// roleSpec is one system role with its permission codes. A nil Permissions
// slice means the whole catalog.
type roleSpec struct {
	Code        string
	Name        string
	Description string
	Permissions []string
}

var systemRoles = []roleSpec{
	{
		Code:        "ADMIN",
		Name:        "Administrator",
		Description: "Full system access with all permissions",
		Permissions: nil,
	},
	{
		Code:        "CXO",
		Name:        "Chief Executive Officer",
		Description: "Executive dashboard and reporting access",
		Permissions: []string{
			"dashboard.executive.read",
			"dashboard.revenue_trends.read",
			"dashboard.ai_insights.read",
			"dashboard.collection_performance.read",
			"reports.export",
			"reports.fine_issue.read",
			"reports.fine_collection.read",
			"reconciliation.summary.read",
		},
	},
	{
		Code:        "OPERATIONS",
		Name:        "Operations User",
		Description: "Reconciliation and data management access",
		Permissions: []string{
			"reconciliation.file.upload",
			"reconciliation.data.read",
			"reconciliation.data.update",
			"reconciliation.file.delete",
			"reconciliation.summary.read",
			"reconciliation.data.validate",
			"reconciliation.data.submit",
			"reconciliation.ai.error_detection",
			"reports.fine_issue.read",
			"reports.fine_collection.read",
		},
	},
}

var defaultDepartments = []model.Department{
	{Name: "Finance", Code: "FIN", Description: "Finance and revenue reconciliation"},
	{Name: "Operations", Code: "OPS", Description: "Operations and data management"},
	{Name: "Executive Office", Code: "EXEC", Description: "Executive leadership"},
}

// AdminSpec describes the bootstrap administrator account.
type AdminSpec struct {
	Email    string
	Username string
	Password string
	FullName string
}

// Run provisions the permission catalog, the three system roles, default
// departments and the bootstrap administrator. Idempotent: existing rows are
// kept, system role permission sets are re-synced to the catalog.
func Run(ctx context.Context, db *gorm.DB, admin AdminSpec) error {
	permissionsByCode, err := seedPermissions(ctx, db)
	if err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if err := seedRoles(ctx, db, permissionsByCode); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := seedDepartments(ctx, db); err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}
	if err := seedAdmin(ctx, db, admin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	logger.Info("Database seeding complete")
	return nil
}

func seedPermissions(ctx context.Context, db *gorm.DB) (map[string]model.Permission, error) {
	byCode := make(map[string]model.Permission, len(systemPermissions))
	for _, spec := range systemPermissions {
		permission := model.Permission{
			Code:        spec.Code,
			Name:        spec.Name,
			Description: spec.Description,
			Category:    spec.Category,
			Action:      spec.Action,
			Resource:    spec.Resource,
		}
		err := db.WithContext(ctx).
			Where(model.Permission{Code: spec.Code}).
			FirstOrCreate(&permission).Error
		if err != nil {
			return nil, err
		}
		byCode[spec.Code] = permission
	}
	logger.Info("Permission catalog seeded", zap.Int("count", len(byCode)))
	return byCode, nil
}

func seedRoles(ctx context.Context, db *gorm.DB, permissionsByCode map[string]model.Permission) error {
	for _, spec := range systemRoles {
		role := model.Role{
			Code:         spec.Code,
			Name:         spec.Name,
			Description:  spec.Description,
			IsSystemRole: true,
		}
		err := db.WithContext(ctx).
			Where(model.Role{Code: spec.Code}).
			FirstOrCreate(&role).Error
		if err != nil {
			return err
		}

		var attach []model.Permission
		if spec.Permissions == nil {
			for _, permission := range permissionsByCode {
				attach = append(attach, permission)
			}
		} else {
			for _, code := range spec.Permissions {
				permission, ok := permissionsByCode[code]
				if !ok {
					return fmt.Errorf("role %s references unknown permission %s", spec.Code, code)
				}
				attach = append(attach, permission)
			}
		}
		if err := db.WithContext(ctx).Model(&role).Association("Permissions").Replace(attach); err != nil {
			return err
		}
		logger.Info("System role seeded",
			zap.String("code", spec.Code),
			zap.Int("permissions", len(attach)))
	}
	return nil
}

func seedDepartments(ctx context.Context, db *gorm.DB) error {
	for _, spec := range defaultDepartments {
		department := spec
		err := db.WithContext(ctx).
			Where(model.Department{Code: spec.Code}).
			FirstOrCreate(&department).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, db *gorm.DB, admin AdminSpec) error {
	if admin.Email == "" || admin.Password == "" {
		logger.Warn("Skipping admin seed, no credentials configured")
		return nil
	}

	var count int64
	err := db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", admin.Email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	user := model.User{
		Email:        admin.Email,
		Username:     admin.Username,
		PasswordHash: hash,
		FullName:     admin.FullName,
		Role:         model.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}
	logger.Info("Bootstrap administrator created", zap.String("email", admin.Email))
	return nil
}
