// controller/role_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/revguard/api/auth"
	"github.com/revguard/api/dao"
	"github.com/revguard/api/model"
	"github.com/revguard/api/service"
	"github.com/revguard/api/util"
	helper_util "github.com/revguard/api/util/helper"
)

type RoleController struct {
	roleService service.IRoleService
}

func NewRoleController(roleService service.IRoleService) *RoleController {
	return &RoleController{roleService: roleService}
}

func (ctrl *RoleController) ListRoles(c *gin.Context) {
	skip, limit, err := helper_util.GetPaginationParams(c, 50, 200)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	filter := dao.RoleFilter{
		Skip:          skip,
		Limit:         limit,
		IncludeSystem: true,
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid is_active filter", err)
			return
		}
		filter.IsActive = &active
	}
	if raw := c.Query("include_system"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid include_system filter", err)
			return
		}
		filter.IncludeSystem = include
	}

	roles, total, err := ctrl.roleService.ListRoles(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.Respond(c, http.StatusOK, "Roles retrieved", ListEnvelope{
		Items: roles, Total: total, Skip: skip, Limit: limit,
	})
}

func (ctrl *RoleController) GetRole(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role id", err)
		return
	}

	role, err := ctrl.roleService.GetRole(c.Request.Context(), roleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "Role retrieved", role)
}

func (ctrl *RoleController) CreateRole(c *gin.Context) {
	var input service.CreateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role payload", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	role, err := ctrl.roleService.CreateRole(c.Request.Context(), actor, input, c.Request)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusCreated, "Role created", role)
}

func (ctrl *RoleController) UpdateRole(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role id", err)
		return
	}

	var input service.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role payload", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	role, err := ctrl.roleService.UpdateRole(c.Request.Context(), actor, roleID, input, c.Request)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "Role updated", role)
}

func (ctrl *RoleController) DeleteRole(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role id", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	if err := ctrl.roleService.DeleteRole(c.Request.Context(), actor, roleID, c.Request); err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "Role deleted", nil)
}

// ListPermissions serves the read-only permission catalog. With grouped=true
// it buckets by category for the role editor; otherwise it pages flat.
func (ctrl *RoleController) ListPermissions(c *gin.Context) {
	if grouped, _ := strconv.ParseBool(c.DefaultQuery("grouped", "false")); grouped {
		permissions, err := ctrl.roleService.ListPermissionsGrouped(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		util.Respond(c, http.StatusOK, "Permissions retrieved", permissions)
		return
	}

	skip, limit, err := helper_util.GetPaginationParams(c, 200, 500)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	filter := dao.PermissionFilter{
		Skip:     skip,
		Limit:    limit,
		Category: model.PermissionCategory(c.Query("category")),
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid is_active filter", err)
			return
		}
		filter.IsActive = &active
	}

	permissions, total, err := ctrl.roleService.ListPermissions(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "Permissions retrieved", ListEnvelope{
		Items: permissions, Total: total, Skip: skip, Limit: limit,
	})
}
