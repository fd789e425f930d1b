// controller/controllers.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/revguard/api/errors"
	"github.com/revguard/api/util"
)

// Controllers aggregates every HTTP controller for router wiring.
type Controllers struct {
	Auth       *AuthController
	User       *UserController
	Department *DepartmentController
	Role       *RoleController
	Audit      *AuditController
	Health     *HealthController
}

// ListEnvelope is the payload shape for paginated collection responses.
type ListEnvelope struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

// respondServiceError translates sentinel service errors into HTTP statuses.
// Anything unmapped is a 500 with the generic envelope; the cause only goes
// to the log.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrDepartmentNotFound),
		errors.Is(err, apperrors.ErrRoleNotFound):
		util.RespondWithError(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, apperrors.ErrEmailConflict),
		errors.Is(err, apperrors.ErrUsernameConflict),
		errors.Is(err, apperrors.ErrDepartmentCodeConflict),
		errors.Is(err, apperrors.ErrRoleCodeConflict),
		errors.Is(err, apperrors.ErrDepartmentHasUsers),
		errors.Is(err, apperrors.ErrSystemRoleDelete):
		util.RespondWithError(c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, apperrors.ErrInvalidUserData),
		errors.Is(err, apperrors.ErrUnknownRole),
		errors.Is(err, apperrors.ErrDepartmentMissing),
		errors.Is(err, apperrors.ErrPermissionNotFound):
		util.RespondWithError(c, http.StatusUnprocessableEntity, err.Error(), err)
	default:
		// Covers ErrDatabaseOperation and anything unmapped.
		util.RespondWithError(c, http.StatusInternalServerError, apperrors.ErrInternalServer.Error(), err)
	}
}
