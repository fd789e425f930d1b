// seed/seed_test.go
package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appdb "github.com/revguard/api/db"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
	"github.com/revguard/api/seed"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitTestLogger()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, appdb.Migrate(gdb))
	return gdb
}

func TestRunIsIdempotent(t *testing.T) {
	gdb := setupSeedDB(t)
	ctx := context.Background()
	admin := seed.AdminSpec{
		Email:    "admin@revenueguardian.com",
		Username: "admin",
		Password: "Bootstrap1234",
		FullName: "System Administrator",
	}

	require.NoError(t, seed.Run(ctx, gdb, admin))
	require.NoError(t, seed.Run(ctx, gdb, admin))

	var permissionCount, roleCount, userCount int64
	require.NoError(t, gdb.Model(&model.Permission{}).Count(&permissionCount).Error)
	require.NoError(t, gdb.Model(&model.Role{}).Count(&roleCount).Error)
	require.NoError(t, gdb.Model(&model.User{}).Count(&userCount).Error)

	assert.Equal(t, int64(25), permissionCount)
	assert.Equal(t, int64(3), roleCount)
	assert.Equal(t, int64(1), userCount)
}

func TestSystemRolePermissionSets(t *testing.T) {
	gdb := setupSeedDB(t)
	require.NoError(t, seed.Run(context.Background(), gdb, seed.AdminSpec{}))

	var admin, operations, executive model.Role
	require.NoError(t, gdb.Preload("Permissions").Where("code = ?", "ADMIN").First(&admin).Error)
	require.NoError(t, gdb.Preload("Permissions").Where("code = ?", "OPERATIONS").First(&operations).Error)
	require.NoError(t, gdb.Preload("Permissions").Where("code = ?", "CXO").First(&executive).Error)

	assert.Len(t, admin.Permissions, 25)
	assert.Len(t, operations.Permissions, 10)
	assert.Len(t, executive.Permissions, 8)

	assert.True(t, admin.IsSystemRole)
	assert.True(t, operations.IsSystemRole)
	assert.True(t, executive.IsSystemRole)
}

func TestRunResyncsSystemRolePermissions(t *testing.T) {
	gdb := setupSeedDB(t)
	ctx := context.Background()
	require.NoError(t, seed.Run(ctx, gdb, seed.AdminSpec{}))

	// Drift: someone detached everything from OPERATIONS.
	var operations model.Role
	require.NoError(t, gdb.Where("code = ?", "OPERATIONS").First(&operations).Error)
	require.NoError(t, gdb.Model(&operations).Association("Permissions").Clear())

	require.NoError(t, seed.Run(ctx, gdb, seed.AdminSpec{}))

	require.NoError(t, gdb.Preload("Permissions").Where("code = ?", "OPERATIONS").First(&operations).Error)
	assert.Len(t, operations.Permissions, 10)
}

func TestAdminSeedSkippedWithoutCredentials(t *testing.T) {
	gdb := setupSeedDB(t)
	require.NoError(t, seed.Run(context.Background(), gdb, seed.AdminSpec{}))

	var userCount int64
	require.NoError(t, gdb.Model(&model.User{}).Count(&userCount).Error)
	assert.Zero(t, userCount)
}
