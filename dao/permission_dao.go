// dao/permission_dao.go
package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/revguard/api/errors"
	"github.com/revguard/api/model"
)

// PermissionDAO reads the permission catalog. The catalog is provisioned at
// bootstrap and read-only through the API, so there are no write methods.
type PermissionDAO struct {
	db *gorm.DB
}

func NewPermissionDAO(db *gorm.DB) *PermissionDAO {
	return &PermissionDAO{db: db}
}

// PermissionFilter narrows List.
type PermissionFilter struct {
	Skip     int
	Limit    int
	Category model.PermissionCategory
	IsActive *bool
}

func (dao *PermissionDAO) GetByCode(ctx context.Context, code string) (*model.Permission, error) {
	var permission model.Permission
	err := dao.db.WithContext(ctx).Where("code = ?", code).First(&permission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPermissionNotFound
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &permission, nil
}

func (dao *PermissionDAO) List(ctx context.Context, filter PermissionFilter) ([]model.Permission, int64, error) {
	query := dao.db.WithContext(ctx).Model(&model.Permission{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDB(err)
	}

	var permissions []model.Permission
	err := query.
		Order("category, code").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&permissions).Error
	if err != nil {
		return nil, 0, wrapDB(err)
	}
	return permissions, total, nil
}
