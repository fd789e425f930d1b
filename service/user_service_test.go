// service/user_service_test.go
package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/dao"
	appdb "github.com/revguard/api/db"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
	"github.com/revguard/api/service"
	"github.com/revguard/api/util"
)

// failingAuditRepo refuses every write and read, standing in for an
// unavailable audit sink.
type failingAuditRepo struct{}

func (failingAuditRepo) Create(ctx context.Context, entry *audit.Log) error {
	return errors.New("audit sink unavailable")
}

func (failingAuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*audit.Log, error) {
	return nil, errors.New("audit sink unavailable")
}

func (failingAuditRepo) List(ctx context.Context, filter audit.Filter) ([]audit.Log, int64, error) {
	return nil, 0, errors.New("audit sink unavailable")
}

func (failingAuditRepo) ListErrors(ctx context.Context, filter audit.ErrorFilter) ([]audit.Log, int64, error) {
	return nil, 0, errors.New("audit sink unavailable")
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitTestLogger()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, appdb.Migrate(gdb))
	require.NoError(t, audit.AutoMigrate(gdb))
	return gdb
}

func newUserService(gdb *gorm.DB, auditService audit.Service) (*service.UserService, *dao.UserDAO) {
	userDAO := dao.NewUserDAO(gdb)
	svc := service.NewUserService(userDAO, dao.NewDepartmentDAO(gdb), auditService, util.NewValidationUtil())
	return svc, userDAO
}

func seedActor(t *testing.T, userDAO *dao.UserDAO) *model.User {
	t.Helper()
	actor := &model.User{
		Email:        "admin@example.com",
		Username:     "admin",
		PasswordHash: "irrelevant",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, userDAO.Create(context.Background(), actor))
	return actor
}

// An unavailable audit sink must not fail the operation being audited.
func TestCreateUserSurvivesAuditSinkFailure(t *testing.T) {
	gdb := setupServiceDB(t)
	svc, userDAO := newUserService(gdb, audit.NewService(failingAuditRepo{}, nil))
	ctx := context.Background()
	actor := seedActor(t, userDAO)

	user, err := svc.CreateUser(ctx, actor, service.CreateUserInput{
		Email:    "ops@example.com",
		Username: "ops",
		Password: "Operate1234",
		FullName: "Ops User",
		Role:     int(model.RoleOperations),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// The write went through despite the failed audit entry.
	persisted, err := userDAO.GetByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, persisted.ID)
}

func TestDeleteUserSurvivesAuditSinkFailure(t *testing.T) {
	gdb := setupServiceDB(t)
	svc, userDAO := newUserService(gdb, audit.NewService(failingAuditRepo{}, nil))
	ctx := context.Background()
	actor := seedActor(t, userDAO)

	user, err := svc.CreateUser(ctx, actor, service.CreateUserInput{
		Email:    "ops@example.com",
		Username: "ops",
		Password: "Operate1234",
		Role:     int(model.RoleOperations),
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, actor, user.ID, nil))
	_, err = userDAO.GetByID(ctx, user.ID)
	assert.Error(t, err)
}

func TestUpdateUserClearsDepartment(t *testing.T) {
	gdb := setupServiceDB(t)
	svc, userDAO := newUserService(gdb, audit.NewService(audit.NewGormRepository(gdb), nil))
	ctx := context.Background()
	actor := seedActor(t, userDAO)

	department := model.Department{Name: "Finance", Code: "FIN"}
	require.NoError(t, gdb.Create(&department).Error)

	user, err := svc.CreateUser(ctx, actor, service.CreateUserInput{
		Email:        "ops@example.com",
		Username:     "ops",
		Password:     "Operate1234",
		Role:         int(model.RoleOperations),
		DepartmentID: &department.ID,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, user.DepartmentID)

	updated, err := svc.UpdateUser(ctx, actor, user.ID, service.UpdateUserInput{
		ClearDepartment: true,
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.DepartmentID)

	persisted, err := userDAO.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, persisted.DepartmentID)
	assert.Nil(t, persisted.Department)
}

func TestUpdateUserRejectsMissingDepartment(t *testing.T) {
	gdb := setupServiceDB(t)
	svc, userDAO := newUserService(gdb, audit.NewService(failingAuditRepo{}, nil))
	ctx := context.Background()
	actor := seedActor(t, userDAO)

	user, err := svc.CreateUser(ctx, actor, service.CreateUserInput{
		Email:    "ops@example.com",
		Username: "ops",
		Password: "Operate1234",
		Role:     int(model.RoleOperations),
	}, nil)
	require.NoError(t, err)

	missing := uuid.New()
	_, err = svc.UpdateUser(ctx, actor, user.ID, service.UpdateUserInput{
		DepartmentID: &missing,
	}, nil)
	assert.Error(t, err)
}
