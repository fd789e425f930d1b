// dao/user_dao.go
package dao

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/revguard/api/errors"
	"github.com/revguard/api/model"
)

// UserDAO performs user persistence against an explicitly injected handle.
// Every read excludes soft-deleted rows.
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// UserFilter narrows List. Nil pointer fields mean "no filter".
type UserFilter struct {
	Skip         int
	Limit        int
	Search       string // matches email, username or full name
	Role         *model.UserRole
	IsActive     *bool
	DepartmentID *uuid.UUID
}

func (dao *UserDAO) live(ctx context.Context) *gorm.DB {
	return dao.db.WithContext(ctx).Where("users.is_deleted = ?", false)
}

func (dao *UserDAO) GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var user model.User
	err := dao.live(ctx).Preload("Department").Where("users.id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &user, nil
}

func (dao *UserDAO) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := dao.live(ctx).Where("users.email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &user, nil
}

func (dao *UserDAO) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := dao.live(ctx).Where("users.username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &user, nil
}

// EmailExists checks uniqueness, optionally ignoring one user (updates).
func (dao *UserDAO) EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	query := dao.live(ctx).Model(&model.User{}).Where("users.email = ?", email)
	if excludeID != nil {
		query = query.Where("users.id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, wrapDB(err)
	}
	return count > 0, nil
}

func (dao *UserDAO) UsernameExists(ctx context.Context, username string, excludeID *uuid.UUID) (bool, error) {
	query := dao.live(ctx).Model(&model.User{}).Where("users.username = ?", username)
	if excludeID != nil {
		query = query.Where("users.id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, wrapDB(err)
	}
	return count > 0, nil
}

func (dao *UserDAO) List(ctx context.Context, filter UserFilter) ([]model.User, int64, error) {
	query := dao.live(ctx).Model(&model.User{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"users.email LIKE ? OR users.username LIKE ? OR users.full_name LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Role != nil {
		query = query.Where("users.role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("users.is_active = ?", *filter.IsActive)
	}
	if filter.DepartmentID != nil {
		query = query.Where("users.department_id = ?", *filter.DepartmentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDB(err)
	}

	var users []model.User
	err := query.
		Preload("Department").
		Order("users.created_at DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, wrapDB(err)
	}
	return users, total, nil
}

func (dao *UserDAO) Create(ctx context.Context, user *model.User) error {
	return wrapDB(dao.db.WithContext(ctx).Create(user).Error)
}

func (dao *UserDAO) Update(ctx context.Context, user *model.User) error {
	return wrapDB(dao.db.WithContext(ctx).Save(user).Error)
}

// SoftDelete marks the user deleted and inactive. The row is never removed so
// audit entries keep a resolvable actor reference.
func (dao *UserDAO) SoftDelete(ctx context.Context, user *model.User, deletedBy uuid.UUID) error {
	user.IsDeleted = true
	user.IsActive = false
	user.UpdatedBy = &deletedBy
	return wrapDB(dao.db.WithContext(ctx).Save(user).Error)
}
