// dao/user_dao_test.go
package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/revguard/api/dao"
	appdb "github.com/revguard/api/db"
	apperrors "github.com/revguard/api/errors"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
)

func setupDAO(t *testing.T) (*dao.UserDAO, *gorm.DB) {
	t.Helper()
	logger.InitTestLogger()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, appdb.Migrate(gdb))
	return dao.NewUserDAO(gdb), gdb
}

func newTestUser(email string) *model.User {
	return &model.User{
		Email:        email,
		Username:     email,
		PasswordHash: "irrelevant",
		Role:         model.RoleOperations,
	}
}

func TestSoftDeletedUsersAreInvisible(t *testing.T) {
	userDAO, gdb := setupDAO(t)
	ctx := context.Background()

	user := newTestUser("ops@example.com")
	require.NoError(t, userDAO.Create(ctx, user))

	found, err := userDAO.GetByEmail(ctx, "ops@example.com")
	require.NoError(t, err)

	require.NoError(t, userDAO.SoftDelete(ctx, found, found.ID))

	_, err = userDAO.GetByEmail(ctx, "ops@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = userDAO.GetByID(ctx, found.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	users, total, err := userDAO.List(ctx, dao.UserFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)

	// The row itself survives for audit references.
	var raw model.User
	require.NoError(t, gdb.Where("id = ?", found.ID).First(&raw).Error)
	assert.True(t, raw.IsDeleted)
	assert.False(t, raw.IsActive)
}

func TestEmailExistsExcludesSelf(t *testing.T) {
	userDAO, _ := setupDAO(t)
	ctx := context.Background()

	user := newTestUser("ops@example.com")
	require.NoError(t, userDAO.Create(ctx, user))

	exists, err := userDAO.EmailExists(ctx, "ops@example.com", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	// Updating a user against their own email is not a conflict.
	exists, err = userDAO.EmailExists(ctx, "ops@example.com", &user.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListFilters(t *testing.T) {
	userDAO, gdb := setupDAO(t)
	ctx := context.Background()

	department := model.Department{Name: "Finance", Code: "FIN"}
	require.NoError(t, gdb.Create(&department).Error)

	ops := newTestUser("ops@example.com")
	ops.FullName = "Ops User"
	ops.DepartmentID = &department.ID
	require.NoError(t, userDAO.Create(ctx, ops))

	admin := newTestUser("admin@example.com")
	admin.Role = model.RoleAdmin
	require.NoError(t, userDAO.Create(ctx, admin))

	adminRole := model.RoleAdmin
	users, total, err := userDAO.List(ctx, dao.UserFilter{Limit: 10, Role: &adminRole})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)

	users, _, err = userDAO.List(ctx, dao.UserFilter{Limit: 10, Search: "Ops U"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ops@example.com", users[0].Email)
	require.NotNil(t, users[0].Department)
	assert.Equal(t, "FIN", users[0].Department.Code)

	users, _, err = userDAO.List(ctx, dao.UserFilter{Limit: 10, DepartmentID: &department.ID})
	require.NoError(t, err)
	require.Len(t, users, 1)
}
