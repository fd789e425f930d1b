// service/department_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/dao"
	apperrors "github.com/revguard/api/errors"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
	"github.com/revguard/api/util"
)

// CreateDepartmentInput is the accepted payload for department creation.
type CreateDepartmentInput struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

// UpdateDepartmentInput carries partial department updates.
type UpdateDepartmentInput struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type IDepartmentService interface {
	GetDepartment(ctx context.Context, departmentID uuid.UUID) (*model.Department, error)
	ListDepartments(ctx context.Context, filter dao.DepartmentFilter) ([]model.Department, int64, error)
	CreateDepartment(ctx context.Context, actor *model.User, input CreateDepartmentInput, r *http.Request) (*model.Department, error)
	UpdateDepartment(ctx context.Context, actor *model.User, departmentID uuid.UUID, input UpdateDepartmentInput, r *http.Request) (*model.Department, error)
	DeleteDepartment(ctx context.Context, actor *model.User, departmentID uuid.UUID, r *http.Request) error
	DepartmentUserCount(ctx context.Context, departmentID uuid.UUID) (int64, error)
}

type DepartmentService struct {
	departmentDAO *dao.DepartmentDAO
	auditService  audit.Service
	validation    *util.ValidationUtil
}

func NewDepartmentService(departmentDAO *dao.DepartmentDAO, auditService audit.Service, validation *util.ValidationUtil) *DepartmentService {
	return &DepartmentService{
		departmentDAO: departmentDAO,
		auditService:  auditService,
		validation:    validation,
	}
}

func (s *DepartmentService) GetDepartment(ctx context.Context, departmentID uuid.UUID) (*model.Department, error) {
	return s.departmentDAO.GetByID(ctx, departmentID)
}

func (s *DepartmentService) ListDepartments(ctx context.Context, filter dao.DepartmentFilter) ([]model.Department, int64, error) {
	return s.departmentDAO.List(ctx, filter)
}

func (s *DepartmentService) DepartmentUserCount(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	return s.departmentDAO.UserCount(ctx, departmentID)
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, actor *model.User, input CreateDepartmentInput, r *http.Request) (*model.Department, error) {
	department := model.Department{
		Name:        input.Name,
		Code:        input.Code,
		Description: input.Description,
	}
	if err := s.validation.ValidateDepartment(department); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUserData, err)
	}

	if _, err := s.departmentDAO.GetByCode(ctx, input.Code, nil); err == nil {
		return nil, apperrors.ErrDepartmentCodeConflict
	} else if !errors.Is(err, apperrors.ErrDepartmentNotFound) {
		return nil, err
	}

	department.CreatedBy = &actor.ID
	if err := s.departmentDAO.Create(ctx, &department); err != nil {
		logger.Error("Failed to create department", zap.Error(err), zap.String("code", input.Code))
		return nil, err
	}

	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionSettingChange,
		ResourceType: audit.ResourceDepartment,
		ResourceID:   department.ID.String(),
		Description:  fmt.Sprintf("Created department %s (%s)", department.Name, department.Code),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	logger.Info("Department created", zap.String("departmentID", department.ID.String()), zap.String("code", department.Code))
	return &department, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, actor *model.User, departmentID uuid.UUID, input UpdateDepartmentInput, r *http.Request) (*model.Department, error) {
	department, err := s.departmentDAO.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != department.Code {
		if _, err := s.departmentDAO.GetByCode(ctx, *input.Code, &department.ID); err == nil {
			return nil, apperrors.ErrDepartmentCodeConflict
		} else if !errors.Is(err, apperrors.ErrDepartmentNotFound) {
			return nil, err
		}
		department.Code = *input.Code
	}
	if input.Name != nil {
		department.Name = *input.Name
	}
	if input.Description != nil {
		department.Description = *input.Description
	}
	if input.IsActive != nil {
		department.IsActive = *input.IsActive
	}

	if err := s.validation.ValidateDepartment(*department); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUserData, err)
	}

	department.UpdatedBy = &actor.ID
	if err := s.departmentDAO.Update(ctx, department); err != nil {
		logger.Error("Failed to update department", zap.Error(err), zap.String("departmentID", departmentID.String()))
		return nil, err
	}

	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionSettingChange,
		ResourceType: audit.ResourceDepartment,
		ResourceID:   department.ID.String(),
		Description:  fmt.Sprintf("Updated department %s (%s)", department.Name, department.Code),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	return department, nil
}

// DeleteDepartment soft-deletes a department. Refused while any non-deleted
// user is still assigned, so accounts never point at a deleted department.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, actor *model.User, departmentID uuid.UUID, r *http.Request) error {
	department, err := s.departmentDAO.GetByID(ctx, departmentID)
	if err != nil {
		return err
	}

	count, err := s.departmentDAO.UserCount(ctx, departmentID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrDepartmentHasUsers
	}

	if err := s.departmentDAO.SoftDelete(ctx, department, actor.ID); err != nil {
		logger.Error("Failed to delete department", zap.Error(err), zap.String("departmentID", departmentID.String()))
		return err
	}

	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionSettingChange,
		ResourceType: audit.ResourceDepartment,
		ResourceID:   department.ID.String(),
		Description:  fmt.Sprintf("Deleted department %s (%s)", department.Name, department.Code),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	logger.Info("Department deleted", zap.String("departmentID", departmentID.String()))
	return nil
}
