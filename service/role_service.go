// service/role_service.go
package service

import (
	"context"
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

// CreateRoleInput is the accepted payload for catalog role creation.
type CreateRoleInput struct {
	Name          string      `json:"name" binding:"required"`
	Code          string      `json:"code" binding:"required"`
	Description   string      `json:"description"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// UpdateRoleInput carries partial role updates. A nil PermissionIDs leaves
// the attached permission set untouched; an empty slice clears it.
type UpdateRoleInput struct {
	Name          *string     `json:"name"`
	Description   *string     `json:"description"`
	IsActive      *bool       `json:"is_active"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// GroupedPermissions buckets the catalog by category for the picker UI.
type GroupedPermissions map[model.PermissionCategory][]model.Permission

type IRoleService interface {
	GetRole(ctx context.Context, roleID uuid.UUID) (*model.Role, error)
	ListRoles(ctx context.Context, filter dao.RoleFilter) ([]model.Role, int64, error)
	CreateRole(ctx context.Context, actor *model.User, input CreateRoleInput, r *http.Request) (*model.Role, error)
	UpdateRole(ctx context.Context, actor *model.User, roleID uuid.UUID, input UpdateRoleInput, r *http.Request) (*model.Role, error)
	DeleteRole(ctx context.Context, actor *model.User, roleID uuid.UUID, r *http.Request) error
	ListPermissions(ctx context.Context, filter dao.PermissionFilter) ([]model.Permission, int64, error)
	ListPermissionsGrouped(ctx context.Context) (GroupedPermissions, error)
}

type RoleService struct {
	roleDAO       *dao.RoleDAO
	permissionDAO *dao.PermissionDAO
	auditService  audit.Service
	validation    *util.ValidationUtil
}

func NewRoleService(roleDAO *dao.RoleDAO, permissionDAO *dao.PermissionDAO, auditService audit.Service, validation *util.ValidationUtil) *RoleService {
	return &RoleService{
		roleDAO:       roleDAO,
		permissionDAO: permissionDAO,
		auditService:  auditService,
		validation:    validation,
	}
}

func (s *RoleService) GetRole(ctx context.Context, roleID uuid.UUID) (*model.Role, error) {
	return s.roleDAO.GetByID(ctx, roleID)
}

func (s *RoleService) ListRoles(ctx context.Context, filter dao.RoleFilter) ([]model.Role, int64, error) {
	return s.roleDAO.List(ctx, filter)
}

func (s *RoleService) CreateRole(ctx context.Context, actor *model.User, input CreateRoleInput, r *http.Request) (*model.Role, error) {
	role := model.Role{
		Name:        input.Name,
		Code:        input.Code,
		Description: input.Description,
	}
	if err := s.validation.ValidateRole(role); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUserData, err)
	}

	if exists, err := s.roleDAO.CodeExists(ctx, input.Code); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrRoleCodeConflict
	}

	role.CreatedBy = &actor.ID
	if err := s.roleDAO.Create(ctx, &role, input.PermissionIDs); err != nil {
		logger.Error("Failed to create role", zap.Error(err), zap.String("code", input.Code))
		return nil, err
	}

	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionPermissionChange,
		ResourceType: audit.ResourceRole,
		ResourceID:   role.ID.String(),
		Description:  fmt.Sprintf("Created role %s with %d permissions", role.Code, len(input.PermissionIDs)),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	logger.Info("Role created", zap.String("roleID", role.ID.String()), zap.String("code", role.Code))
	return s.roleDAO.GetByID(ctx, role.ID)
}

func (s *RoleService) UpdateRole(ctx context.Context, actor *model.User, roleID uuid.UUID, input UpdateRoleInput, r *http.Request) (*model.Role, error) {
	role, err := s.roleDAO.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		role.Name = *input.Name
	}
	if input.Description != nil {
		role.Description = *input.Description
	}
	if input.IsActive != nil {
		role.IsActive = *input.IsActive
	}

	if err := s.validation.ValidateRole(*role); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUserData, err)
	}

	role.UpdatedBy = &actor.ID
	if err := s.roleDAO.Update(ctx, role, input.PermissionIDs); err != nil {
		logger.Error("Failed to update role", zap.Error(err), zap.String("roleID", roleID.String()))
		return nil, err
	}

	description := fmt.Sprintf("Updated role %s", role.Code)
	if input.PermissionIDs != nil {
		description = fmt.Sprintf("Updated role %s, permission set replaced with %d permissions", role.Code, len(input.PermissionIDs))
	}
	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionPermissionChange,
		ResourceType: audit.ResourceRole,
		ResourceID:   role.ID.String(),
		Description:  description,
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	return s.roleDAO.GetByID(ctx, role.ID)
}

// DeleteRole soft-deletes a custom catalog role. The three built-in system
// roles are load-bearing for account role resolution and cannot be deleted.
func (s *RoleService) DeleteRole(ctx context.Context, actor *model.User, roleID uuid.UUID, r *http.Request) error {
	role, err := s.roleDAO.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystemRole {
		return apperrors.ErrSystemRoleDelete
	}

	if err := s.roleDAO.SoftDelete(ctx, role, actor.ID); err != nil {
		logger.Error("Failed to delete role", zap.Error(err), zap.String("roleID", roleID.String()))
		return err
	}

	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionPermissionChange,
		ResourceType: audit.ResourceRole,
		ResourceID:   role.ID.String(),
		Description:  fmt.Sprintf("Deleted role %s", role.Code),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	logger.Info("Role deleted", zap.String("roleID", roleID.String()))
	return nil
}

func (s *RoleService) ListPermissions(ctx context.Context, filter dao.PermissionFilter) ([]model.Permission, int64, error) {
	return s.permissionDAO.List(ctx, filter)
}

// ListPermissionsGrouped returns every active permission bucketed by
// category, ordered by code within each bucket.
func (s *RoleService) ListPermissionsGrouped(ctx context.Context) (GroupedPermissions, error) {
	active := true
	permissions, _, err := s.permissionDAO.List(ctx, dao.PermissionFilter{
		Limit:    1000,
		IsActive: &active,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(GroupedPermissions)
	for _, permission := range permissions {
		grouped[permission.Category] = append(grouped[permission.Category], permission)
	}
	return grouped, nil
}
