// controller/user_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/revguard/api/auth"
	"github.com/revguard/api/dao"
	apperrors "github.com/revguard/api/errors"
	"github.com/revguard/api/model"
	"github.com/revguard/api/service"
	"github.com/revguard/api/util"
	helper_util "github.com/revguard/api/util/helper"
)

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{userService: userService}
}

func (ctrl *UserController) ListUsers(c *gin.Context) {
	skip, limit, err := helper_util.GetPaginationParams(c, 50, 200)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	filter := dao.UserFilter{
		Skip:   skip,
		Limit:  limit,
		Search: c.Query("search"),
	}
	if raw := c.Query("role"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid role filter", err)
			return
		}
		role, err := model.ParseUserRole(value)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid role filter", err)
			return
		}
		filter.Role = &role
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid is_active filter", err)
			return
		}
		filter.IsActive = &active
	}
	if raw := c.Query("department_id"); raw != "" {
		departmentID, err := uuid.Parse(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid department_id filter", err)
			return
		}
		filter.DepartmentID = &departmentID
	}

	users, total, err := ctrl.userService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.Respond(c, http.StatusOK, "Users retrieved", ListEnvelope{
		Items: users, Total: total, Skip: skip, Limit: limit,
	})
}

// GetUser returns one user. Administrators may fetch anyone; other callers
// only themselves.
func (ctrl *UserController) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}
	if actor.Role != model.RoleAdmin && actor.ID != userID {
		util.RespondWithError(c, http.StatusForbidden, "Insufficient privileges", apperrors.ErrRoleMismatch)
		return
	}

	user, err := ctrl.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "User retrieved", user)
}

func (ctrl *UserController) CreateUser(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user payload", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	user, err := ctrl.userService.CreateUser(c.Request.Context(), actor, input, c.Request)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusCreated, "User created", user)
}

func (ctrl *UserController) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user payload", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	user, err := ctrl.userService.UpdateUser(c.Request.Context(), actor, userID, input, c.Request)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "User updated", user)
}

func (ctrl *UserController) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	if err := ctrl.userService.DeleteUser(c.Request.Context(), actor, userID, c.Request); err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "User deleted", nil)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetUserStatus activates or deactivates an account without touching its
// other fields.
func (ctrl *UserController) SetUserStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid status payload", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	user, err := ctrl.userService.SetUserActive(c.Request.Context(), actor, userID, *req.IsActive, c.Request)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "User status updated", user)
}
