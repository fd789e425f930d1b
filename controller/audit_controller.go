// controller/audit_controller.go
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/util"
	helper_util "github.com/revguard/api/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{auditService: auditService}
}

func parseDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (ctrl *AuditController) ListLogs(c *gin.Context) {
	skip, limit, err := helper_util.GetPaginationParams(c, audit.DefaultPageSize, audit.MaxPageSize)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	filter := audit.Filter{
		Skip:         skip,
		Limit:        limit,
		ActionType:   audit.ActionType(c.Query("action_type")),
		ResourceType: audit.ResourceType(c.Query("resource_type")),
		Status:       audit.Status(c.Query("status")),
		Severity:     audit.Severity(c.Query("severity")),
		ErrorType:    c.Query("error_type"),
		Search:       c.Query("search"),
	}
	if filter.DateFrom, err = parseDate(c, "date_from"); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid date_from", err)
		return
	}
	if filter.DateTo, err = parseDate(c, "date_to"); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid date_to", err)
		return
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid user_id filter", err)
			return
		}
		filter.UserID = &userID
	}

	entries, total, err := ctrl.auditService.List(c.Request.Context(), filter)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	util.Respond(c, http.StatusOK, "Audit logs retrieved", ListEnvelope{
		Items: asViews(entries), Total: total, Skip: skip, Limit: limit,
	})
}

func (ctrl *AuditController) ListErrors(c *gin.Context) {
	skip, limit, err := helper_util.GetPaginationParams(c, audit.DefaultPageSize, audit.MaxPageSize)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	filter := audit.ErrorFilter{
		Skip:      skip,
		Limit:     limit,
		Severity:  audit.Severity(c.Query("severity")),
		ErrorType: c.Query("error_type"),
		Search:    c.Query("search"),
	}
	if filter.DateFrom, err = parseDate(c, "date_from"); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid date_from", err)
		return
	}
	if filter.DateTo, err = parseDate(c, "date_to"); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid date_to", err)
		return
	}

	entries, total, err := ctrl.auditService.ListErrors(c.Request.Context(), filter)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	util.Respond(c, http.StatusOK, "Error logs retrieved", ListEnvelope{
		Items: asViews(entries), Total: total, Skip: skip, Limit: limit,
	})
}

func (ctrl *AuditController) GetLog(c *gin.Context) {
	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid audit log id", err)
		return
	}

	entry, err := ctrl.auditService.GetByID(c.Request.Context(), logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Audit log not found", err)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	util.Respond(c, http.StatusOK, "Audit log retrieved", entry.AsView())
}

func asViews(entries []audit.Log) []audit.View {
	views := make([]audit.View, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entry.AsView())
	}
	return views
}
