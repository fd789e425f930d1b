// controller/audit_controller_test.go
package controller_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/controller"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
	"github.com/revguard/api/test/mock"
)

func setupAuditRoutes(svc audit.Service) *gin.Engine {
	logger.InitTestLogger()
	gin.SetMode(gin.TestMode)

	ctrl := controller.NewAuditController(svc)
	engine := gin.New()
	engine.GET("/audit-logs", ctrl.ListLogs)
	engine.GET("/audit-logs/errors", ctrl.ListErrors)
	engine.GET("/audit-logs/:id", ctrl.GetLog)
	return engine
}

func TestListLogsPassesFilters(t *testing.T) {
	svc := new(mock.MockAuditService)
	engine := setupAuditRoutes(svc)

	actor := uuid.New()
	entries := []audit.Log{{
		ID:          uuid.New(),
		Timestamp:   time.Now().UTC(),
		UserID:      &actor,
		ActionType:  audit.ActionLogin,
		Status:      audit.StatusSuccess,
		Description: "User ops@example.com logged in successfully",
		User:        &model.User{Email: "ops@example.com", FullName: "Ops User"},
	}}
	svc.On("List", testify_mock.Anything, testify_mock.MatchedBy(func(filter audit.Filter) bool {
		return filter.ActionType == audit.ActionLogin &&
			filter.UserID != nil && *filter.UserID == actor &&
			filter.Limit == 25
	})).Return(entries, int64(1), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/audit-logs?action_type=login&user_id="+actor.String()+"&limit=25", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops@example.com")
	assert.Contains(t, w.Body.String(), "Ops User") // joined actor fields
	svc.AssertExpectations(t)
}

func TestListLogsRejectsBadFilters(t *testing.T) {
	svc := new(mock.MockAuditService)
	engine := setupAuditRoutes(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/audit-logs?user_id=not-a-uuid", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/audit-logs?date_from=yesterday", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNotCalled(t, "List")
}

func TestGetLogNotFound(t *testing.T) {
	svc := new(mock.MockAuditService)
	engine := setupAuditRoutes(svc)

	svc.On("GetByID", testify_mock.Anything, testify_mock.Anything).
		Return(nil, gorm.ErrRecordNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/audit-logs/"+uuid.NewString(), nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListErrorsFailure(t *testing.T) {
	svc := new(mock.MockAuditService)
	engine := setupAuditRoutes(svc)

	svc.On("ListErrors", testify_mock.Anything, testify_mock.Anything).
		Return(nil, int64(0), errors.New("sink unavailable"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/audit-logs/errors", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The cause stays in the log; the body carries only the envelope.
	assert.NotContains(t, w.Body.String(), "sink unavailable")
}
