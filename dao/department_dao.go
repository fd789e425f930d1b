// dao/department_dao.go
package dao

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/revguard/api/errors"
	"github.com/revguard/api/model"
)

type DepartmentDAO struct {
	db *gorm.DB
}

func NewDepartmentDAO(db *gorm.DB) *DepartmentDAO {
	return &DepartmentDAO{db: db}
}

// DepartmentFilter narrows List.
type DepartmentFilter struct {
	Skip     int
	Limit    int
	Search   string // matches name or code
	IsActive *bool
}

func (dao *DepartmentDAO) live(ctx context.Context) *gorm.DB {
	return dao.db.WithContext(ctx).Where("departments.is_deleted = ?", false)
}

func (dao *DepartmentDAO) GetByID(ctx context.Context, departmentID uuid.UUID) (*model.Department, error) {
	var department model.Department
	err := dao.live(ctx).Where("departments.id = ?", departmentID).First(&department).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &department, nil
}

// GetByCode looks a department up by its case-insensitive code, optionally
// ignoring one row for update uniqueness checks.
func (dao *DepartmentDAO) GetByCode(ctx context.Context, code string, excludeID *uuid.UUID) (*model.Department, error) {
	query := dao.live(ctx).Where("departments.code = ?", strings.ToUpper(code))
	if excludeID != nil {
		query = query.Where("departments.id <> ?", *excludeID)
	}
	var department model.Department
	err := query.First(&department).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &department, nil
}

func (dao *DepartmentDAO) List(ctx context.Context, filter DepartmentFilter) ([]model.Department, int64, error) {
	query := dao.live(ctx).Model(&model.Department{})

	if filter.IsActive != nil {
		query = query.Where("departments.is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("departments.name LIKE ? OR departments.code LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDB(err)
	}

	var departments []model.Department
	err := query.
		Order("departments.name").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&departments).Error
	if err != nil {
		return nil, 0, wrapDB(err)
	}
	return departments, total, nil
}

// UserCount counts the non-deleted users assigned to the department.
// Deletion is refused while this is non-zero.
func (dao *DepartmentDAO) UserCount(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	err := dao.db.WithContext(ctx).
		Model(&model.User{}).
		Where("users.department_id = ?", departmentID).
		Where("users.is_deleted = ?", false).
		Count(&count).Error
	return count, wrapDB(err)
}

func (dao *DepartmentDAO) Create(ctx context.Context, department *model.Department) error {
	department.Code = strings.ToUpper(department.Code)
	return wrapDB(dao.db.WithContext(ctx).Create(department).Error)
}

func (dao *DepartmentDAO) Update(ctx context.Context, department *model.Department) error {
	department.Code = strings.ToUpper(department.Code)
	return wrapDB(dao.db.WithContext(ctx).Save(department).Error)
}

func (dao *DepartmentDAO) SoftDelete(ctx context.Context, department *model.Department, deletedBy uuid.UUID) error {
	department.IsDeleted = true
	department.IsActive = false
	department.UpdatedBy = &deletedBy
	return wrapDB(dao.db.WithContext(ctx).Save(department).Error)
}
