// service/user_service.go
package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/auth"
	"github.com/revguard/api/dao"
	apperrors "github.com/revguard/api/errors"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
	"github.com/revguard/api/util"
)

// CreateUserInput is the accepted payload for account creation.
type CreateUserInput struct {
	Email        string     `json:"email" binding:"required,email"`
	Username     string     `json:"username" binding:"required"`
	Password     string     `json:"password" binding:"required"`
	FullName     string     `json:"full_name"`
	Role         int        `json:"role" binding:"required"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

// UpdateUserInput carries partial account updates. Nil fields are untouched.
// DepartmentID can only set an assignment; ClearDepartment removes one.
type UpdateUserInput struct {
	Email           *string    `json:"email"`
	Username        *string    `json:"username"`
	Password        *string    `json:"password"`
	FullName        *string    `json:"full_name"`
	Role            *int       `json:"role"`
	DepartmentID    *uuid.UUID `json:"department_id"`
	ClearDepartment bool       `json:"clear_department"`
}

type IUserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, filter dao.UserFilter) ([]model.User, int64, error)
	CreateUser(ctx context.Context, actor *model.User, input CreateUserInput, r *http.Request) (*model.User, error)
	UpdateUser(ctx context.Context, actor *model.User, userID uuid.UUID, input UpdateUserInput, r *http.Request) (*model.User, error)
	DeleteUser(ctx context.Context, actor *model.User, userID uuid.UUID, r *http.Request) error
	SetUserActive(ctx context.Context, actor *model.User, userID uuid.UUID, active bool, r *http.Request) (*model.User, error)
}

type UserService struct {
	userDAO       *dao.UserDAO
	departmentDAO *dao.DepartmentDAO
	auditService  audit.Service
	validation    *util.ValidationUtil
}

func NewUserService(userDAO *dao.UserDAO, departmentDAO *dao.DepartmentDAO, auditService audit.Service, validation *util.ValidationUtil) *UserService {
	return &UserService{
		userDAO:       userDAO,
		departmentDAO: departmentDAO,
		auditService:  auditService,
		validation:    validation,
	}
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userDAO.GetByID(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context, filter dao.UserFilter) ([]model.User, int64, error) {
	return s.userDAO.List(ctx, filter)
}

func (s *UserService) CreateUser(ctx context.Context, actor *model.User, input CreateUserInput, r *http.Request) (*model.User, error) {
	role, err := model.ParseUserRole(input.Role)
	if err != nil {
		return nil, apperrors.ErrUnknownRole
	}

	user := model.User{
		Email:        input.Email,
		Username:     input.Username,
		FullName:     input.FullName,
		Role:         role,
		DepartmentID: input.DepartmentID,
	}
	if err := s.validation.ValidateUser(user); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUserData, err)
	}
	if err := s.validation.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUserData, err)
	}

	if exists, err := s.userDAO.EmailExists(ctx, input.Email, nil); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrEmailConflict
	}
	if exists, err := s.userDAO.UsernameExists(ctx, input.Username, nil); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrUsernameConflict
	}
	if input.DepartmentID != nil {
		if _, err := s.departmentDAO.GetByID(ctx, *input.DepartmentID); err != nil {
			return nil, apperrors.ErrDepartmentMissing
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.CreatedBy = &actor.ID

	if err := s.userDAO.Create(ctx, &user); err != nil {
		logger.Error("Failed to create user", zap.Error(err), zap.String("email", input.Email))
		return nil, err
	}

	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionUserCreate,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID.String(),
		Description:  fmt.Sprintf("Created user %s with role %s", user.Email, user.Role.Code()),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	logger.Info("User created", zap.String("userID", user.ID.String()), zap.String("email", user.Email))
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor *model.User, userID uuid.UUID, input UpdateUserInput, r *http.Request) (*model.User, error) {
	user, err := s.userDAO.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	roleChanged := false
	previousRole := user.Role

	if input.Email != nil && *input.Email != user.Email {
		if exists, err := s.userDAO.EmailExists(ctx, *input.Email, &user.ID); err != nil {
			return nil, err
		} else if exists {
			return nil, apperrors.ErrEmailConflict
		}
		user.Email = *input.Email
	}
	if input.Username != nil && *input.Username != user.Username {
		if exists, err := s.userDAO.UsernameExists(ctx, *input.Username, &user.ID); err != nil {
			return nil, err
		} else if exists {
			return nil, apperrors.ErrUsernameConflict
		}
		user.Username = *input.Username
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		role, err := model.ParseUserRole(*input.Role)
		if err != nil {
			return nil, apperrors.ErrUnknownRole
		}
		if role != user.Role {
			user.Role = role
			roleChanged = true
		}
	}
	if input.ClearDepartment {
		user.DepartmentID = nil
		user.Department = nil
	} else if input.DepartmentID != nil {
		if _, err := s.departmentDAO.GetByID(ctx, *input.DepartmentID); err != nil {
			return nil, apperrors.ErrDepartmentMissing
		}
		user.DepartmentID = input.DepartmentID
	}

	passwordChanged := false
	if input.Password != nil {
		if err := s.validation.ValidatePassword(*input.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUserData, err)
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		passwordChanged = true
	}

	if err := s.validation.ValidateUser(*user); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUserData, err)
	}

	user.UpdatedBy = &actor.ID
	if err := s.userDAO.Update(ctx, user); err != nil {
		logger.Error("Failed to update user", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}

	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionUserUpdate,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID.String(),
		Description:  fmt.Sprintf("Updated user %s", user.Email),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})
	if roleChanged {
		s.auditService.Record(ctx, audit.Log{
			UserID:       &actor.ID,
			ActionType:   audit.ActionRoleAssign,
			ResourceType: audit.ResourceUser,
			ResourceID:   user.ID.String(),
			Description:  fmt.Sprintf("Changed role of %s from %s to %s", user.Email, previousRole.Code(), user.Role.Code()),
			IPAddress:    audit.ClientIP(r),
			UserAgent:    userAgent(r),
		})
	}
	if passwordChanged {
		s.auditService.Record(ctx, audit.Log{
			UserID:       &actor.ID,
			ActionType:   audit.ActionPasswordChange,
			ResourceType: audit.ResourceUser,
			ResourceID:   user.ID.String(),
			Description:  fmt.Sprintf("Password changed for %s", user.Email),
			IPAddress:    audit.ClientIP(r),
			UserAgent:    userAgent(r),
		})
	}

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor *model.User, userID uuid.UUID, r *http.Request) error {
	user, err := s.userDAO.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userDAO.SoftDelete(ctx, user, actor.ID); err != nil {
		logger.Error("Failed to delete user", zap.Error(err), zap.String("userID", userID.String()))
		return err
	}

	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   audit.ActionUserDelete,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID.String(),
		Description:  fmt.Sprintf("Deleted user %s", user.Email),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	logger.Info("User deleted", zap.String("userID", userID.String()))
	return nil
}

func (s *UserService) SetUserActive(ctx context.Context, actor *model.User, userID uuid.UUID, active bool, r *http.Request) (*model.User, error) {
	user, err := s.userDAO.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	user.UpdatedBy = &actor.ID
	if err := s.userDAO.Update(ctx, user); err != nil {
		return nil, err
	}

	action := audit.ActionUserActivate
	verb := "Activated"
	if !active {
		action = audit.ActionUserDeactivate
		verb = "Deactivated"
	}
	s.auditService.Record(ctx, audit.Log{
		UserID:       &actor.ID,
		ActionType:   action,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID.String(),
		Description:  fmt.Sprintf("%s user %s", verb, user.Email),
		IPAddress:    audit.ClientIP(r),
		UserAgent:    userAgent(r),
	})

	return user, nil
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}
