// dao/role_dao.go
package dao

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/revguard/api/errors"
	"github.com/revguard/api/model"
)

type RoleDAO struct {
	db *gorm.DB
}

func NewRoleDAO(db *gorm.DB) *RoleDAO {
	return &RoleDAO{db: db}
}

// RoleFilter narrows List.
type RoleFilter struct {
	Skip          int
	Limit         int
	IsActive      *bool
	IncludeSystem bool
}

func (dao *RoleDAO) live(ctx context.Context) *gorm.DB {
	return dao.db.WithContext(ctx).Where("roles.is_deleted = ?", false)
}

func (dao *RoleDAO) GetByID(ctx context.Context, roleID uuid.UUID) (*model.Role, error) {
	var role model.Role
	err := dao.live(ctx).Preload("Permissions").Where("roles.id = ?", roleID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrRoleNotFound
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &role, nil
}

func (dao *RoleDAO) GetByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	err := dao.live(ctx).Preload("Permissions").Where("roles.code = ?", code).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrRoleNotFound
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &role, nil
}

func (dao *RoleDAO) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := dao.live(ctx).Model(&model.Role{}).Where("roles.code = ?", code).Count(&count).Error
	if err != nil {
		return false, wrapDB(err)
	}
	return count > 0, nil
}

func (dao *RoleDAO) List(ctx context.Context, filter RoleFilter) ([]model.Role, int64, error) {
	query := dao.live(ctx).Model(&model.Role{})

	if filter.IsActive != nil {
		query = query.Where("roles.is_active = ?", *filter.IsActive)
	}
	if !filter.IncludeSystem {
		query = query.Where("roles.is_system_role = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDB(err)
	}

	var roles []model.Role
	err := query.
		Preload("Permissions").
		Order("roles.code").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&roles).Error
	if err != nil {
		return nil, 0, wrapDB(err)
	}
	return roles, total, nil
}

// Create persists the role and attaches the given permissions through the
// junction table.
func (dao *RoleDAO) Create(ctx context.Context, role *model.Role, permissionIDs []uuid.UUID) error {
	return dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return wrapDB(err)
		}
		if len(permissionIDs) == 0 {
			return nil
		}
		permissions, err := loadPermissions(tx, permissionIDs)
		if err != nil {
			return err
		}
		return wrapDB(tx.Model(role).Association("Permissions").Replace(permissions))
	})
}

// Update persists field changes and, when permissionIDs is non-nil, replaces
// the role's permission set.
func (dao *RoleDAO) Update(ctx context.Context, role *model.Role, permissionIDs []uuid.UUID) error {
	return dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return wrapDB(err)
		}
		if permissionIDs == nil {
			return nil
		}
		permissions, err := loadPermissions(tx, permissionIDs)
		if err != nil {
			return err
		}
		return wrapDB(tx.Model(role).Association("Permissions").Replace(permissions))
	})
}

// SoftDelete retires a custom role. Callers must refuse system roles first.
func (dao *RoleDAO) SoftDelete(ctx context.Context, role *model.Role, deletedBy uuid.UUID) error {
	role.IsDeleted = true
	role.IsActive = false
	role.UpdatedBy = &deletedBy
	return wrapDB(dao.db.WithContext(ctx).Save(role).Error)
}

func loadPermissions(tx *gorm.DB, ids []uuid.UUID) ([]model.Permission, error) {
	var permissions []model.Permission
	if err := tx.Where("id IN ?", ids).Find(&permissions).Error; err != nil {
		return nil, wrapDB(err)
	}
	if len(permissions) != len(ids) {
		return nil, apperrors.ErrPermissionNotFound
	}
	return permissions, nil
}
