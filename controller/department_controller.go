// controller/department_controller.go
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

type DepartmentController struct {
	departmentService service.IDepartmentService
}

func NewDepartmentController(departmentService service.IDepartmentService) *DepartmentController {
	return &DepartmentController{departmentService: departmentService}
}

// departmentView augments a department with its live member count.
type departmentView struct {
	model.Department
	UserCount int64 `json:"user_count"`
}

func (ctrl *DepartmentController) ListDepartments(c *gin.Context) {
	skip, limit, err := helper_util.GetPaginationParams(c, 50, 200)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	filter := dao.DepartmentFilter{
		Skip:   skip,
		Limit:  limit,
		Search: c.Query("search"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid is_active filter", err)
			return
		}
		filter.IsActive = &active
	}

	departments, total, err := ctrl.departmentService.ListDepartments(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]departmentView, 0, len(departments))
	for _, department := range departments {
		count, err := ctrl.departmentService.DepartmentUserCount(c.Request.Context(), department.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		views = append(views, departmentView{Department: department, UserCount: count})
	}

	util.Respond(c, http.StatusOK, "Departments retrieved", ListEnvelope{
		Items: views, Total: total, Skip: skip, Limit: limit,
	})
}

func (ctrl *DepartmentController) GetDepartment(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department id", err)
		return
	}

	department, err := ctrl.departmentService.GetDepartment(c.Request.Context(), departmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	count, err := ctrl.departmentService.DepartmentUserCount(c.Request.Context(), departmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "Department retrieved", departmentView{
		Department: *department, UserCount: count,
	})
}

func (ctrl *DepartmentController) CreateDepartment(c *gin.Context) {
	var input service.CreateDepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department payload", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	department, err := ctrl.departmentService.CreateDepartment(c.Request.Context(), actor, input, c.Request)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusCreated, "Department created", department)
}

func (ctrl *DepartmentController) UpdateDepartment(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department id", err)
		return
	}

	var input service.UpdateDepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department payload", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	department, err := ctrl.departmentService.UpdateDepartment(c.Request.Context(), actor, departmentID, input, c.Request)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "Department updated", department)
}

func (ctrl *DepartmentController) DeleteDepartment(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department id", err)
		return
	}

	actor, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	if err := ctrl.departmentService.DeleteDepartment(c.Request.Context(), actor, departmentID, c.Request); err != nil {
		respondServiceError(c, err)
		return
	}
	util.Respond(c, http.StatusOK, "Department deleted", nil)
}
