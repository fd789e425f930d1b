// rbac/resolver_test.go
package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appdb "github.com/revguard/api/db"
	apperrors "github.com/revguard/api/errors"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
	"github.com/revguard/api/rbac"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitTestLogger()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, appdb.Migrate(gdb))
	return gdb
}

func seedCatalog(t *testing.T, gdb *gorm.DB) (active, inactive, unattached model.Permission) {
	t.Helper()

	active = model.Permission{
		Code: "reconciliation.data.read", Name: "View Data Grid",
		Category: model.CategoryReconciliation, Action: model.ActionRead, Resource: "fine_data",
	}
	inactive = model.Permission{
		Code: "reconciliation.file.delete", Name: "Delete Files",
		Category: model.CategoryReconciliation, Action: model.ActionDelete, Resource: "fine_data_file",
	}
	unattached = model.Permission{
		Code: "dashboard.executive.read", Name: "View Executive Dashboard",
		Category: model.CategoryDashboard, Action: model.ActionRead, Resource: "executive_dashboard",
	}
	require.NoError(t, gdb.Create(&active).Error)
	require.NoError(t, gdb.Create(&inactive).Error)
	require.NoError(t, gdb.Create(&unattached).Error)

	// The is_active column default applies on create; deactivation is
	// always an explicit update.
	require.NoError(t, gdb.Model(&inactive).Update("is_active", false).Error)
	inactive.IsActive = false

	operations := model.Role{
		Code: "OPERATIONS", Name: "Operations User", IsSystemRole: true,
		Permissions: []model.Permission{active, inactive},
	}
	require.NoError(t, gdb.Create(&operations).Error)

	executive := model.Role{
		Code: "CXO", Name: "Chief Executive Officer", IsSystemRole: true,
		Permissions: []model.Permission{active},
	}
	require.NoError(t, gdb.Create(&executive).Error)
	require.NoError(t, gdb.Model(&executive).Update("is_active", false).Error)

	return active, inactive, unattached
}

func TestHasPermissionAdminBypass(t *testing.T) {
	gdb := setupDB(t)
	resolver := rbac.NewResolver(gdb)
	admin := &model.User{Role: model.RoleAdmin}

	// No catalog rows exist at all; the admin still holds everything.
	ok, err := resolver.HasPermission(context.Background(), admin, "anything.at.all")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasPermissionRoleLookup(t *testing.T) {
	gdb := setupDB(t)
	seedCatalog(t, gdb)
	resolver := rbac.NewResolver(gdb)
	ctx := context.Background()

	operations := &model.User{Role: model.RoleOperations}

	ok, err := resolver.HasPermission(ctx, operations, "reconciliation.data.read")
	require.NoError(t, err)
	assert.True(t, ok)

	// Attached but inactive permission does not grant.
	ok, err = resolver.HasPermission(ctx, operations, "reconciliation.file.delete")
	require.NoError(t, err)
	assert.False(t, ok)

	// Active permission not attached to the role does not grant.
	ok, err = resolver.HasPermission(ctx, operations, "dashboard.executive.read")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = resolver.HasPermission(ctx, operations, "no.such.code")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPermissionInactiveRole(t *testing.T) {
	gdb := setupDB(t)
	seedCatalog(t, gdb)
	resolver := rbac.NewResolver(gdb)

	// The CXO role row is inactive, so even its attached active permission
	// is suspended.
	executive := &model.User{Role: model.RoleExecutive}
	ok, err := resolver.HasPermission(context.Background(), executive, "reconciliation.data.read")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPermissionUnknownRoleFailsClosed(t *testing.T) {
	gdb := setupDB(t)
	seedCatalog(t, gdb)
	resolver := rbac.NewResolver(gdb)

	stranger := &model.User{Role: model.UserRole(99)}
	ok, err := resolver.HasPermission(context.Background(), stranger, "reconciliation.data.read")
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)
	assert.False(t, ok)
}

func TestHasAnyHasAll(t *testing.T) {
	gdb := setupDB(t)
	seedCatalog(t, gdb)
	resolver := rbac.NewResolver(gdb)
	ctx := context.Background()
	operations := &model.User{Role: model.RoleOperations}

	ok, err := resolver.HasAny(ctx, operations, []string{"no.such.code", "reconciliation.data.read"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.HasAny(ctx, operations, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = resolver.HasAll(ctx, operations, []string{"reconciliation.data.read"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.HasAll(ctx, operations, []string{"reconciliation.data.read", "no.such.code"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = resolver.HasAll(ctx, operations, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEffectivePermissions(t *testing.T) {
	gdb := setupDB(t)
	seedCatalog(t, gdb)
	resolver := rbac.NewResolver(gdb)
	ctx := context.Background()

	// Administrators see every active catalog entry, attached or not.
	admin := &model.User{Role: model.RoleAdmin}
	permissions, err := resolver.EffectivePermissions(ctx, admin)
	require.NoError(t, err)
	codes := permissionCodes(permissions)
	assert.Equal(t, []string{"dashboard.executive.read", "reconciliation.data.read"}, codes)

	// Operations only sees its attached active permissions.
	operations := &model.User{Role: model.RoleOperations}
	permissions, err = resolver.EffectivePermissions(ctx, operations)
	require.NoError(t, err)
	assert.Equal(t, []string{"reconciliation.data.read"}, permissionCodes(permissions))

	stranger := &model.User{Role: model.UserRole(42)}
	_, err = resolver.EffectivePermissions(ctx, stranger)
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)
}

func permissionCodes(permissions []model.Permission) []string {
	codes := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		codes = append(codes, permission.Code)
	}
	return codes
}
