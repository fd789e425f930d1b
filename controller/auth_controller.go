// controller/auth_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/auth"
	"github.com/revguard/api/db"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/metrics"
	"github.com/revguard/api/model"
	"github.com/revguard/api/rbac"
	"github.com/revguard/api/util"
)

type AuthController struct {
	authService  *auth.Service
	auditService audit.Service
	resolver     *rbac.Resolver
}

func NewAuthController(authService *auth.Service, auditService audit.Service, resolver *rbac.Resolver) *AuthController {
	return &AuthController{
		authService:  authService,
		auditService: auditService,
		resolver:     resolver,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        model.UserSummary `json:"user"`
}

// Login validates credentials and issues a bearer token. Both outcomes are
// audited; failures always yield the same generic 401.
func (ctrl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid login payload", err)
		return
	}

	ctx := c.Request.Context()
	user, err := ctrl.authService.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		ctrl.auditService.RecordLogin(ctx, nil, req.Email, c.Request, false)
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, util.Envelope{
			Status:  http.StatusUnauthorized,
			Message: "Could not validate credentials",
			Data:    []interface{}{},
		})
		return
	}

	token, err := ctrl.authService.IssueToken(user)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	ctrl.auditService.RecordLogin(ctx, user, user.Email, c.Request, true)

	util.Respond(c, http.StatusOK, "Login successful", loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Summary(),
	})
}

// Logout revokes the presented token for its remaining lifetime and audits
// the event. Revocation failure is a server error; the token must not keep
// working after a 200.
func (ctrl *AuthController) Logout(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	ctx := c.Request.Context()
	if tokenID, expiry, ok := auth.CurrentToken(c); ok {
		ttl := time.Until(expiry)
		if err := db.RevokeToken(ctx, tokenID, ttl); err != nil {
			util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
			return
		}
	}

	ctrl.auditService.RecordLogout(ctx, user, c.Request)
	logger.Info("User logged out", zap.String("userID", user.ID.String()))
	util.Respond(c, http.StatusOK, "Logged out", nil)
}

type permissionsResponse struct {
	User        model.UserSummary  `json:"user"`
	RoleCode    string             `json:"role_code"`
	Permissions []model.Permission `json:"permissions"`
}

// MyPermissions returns the caller's effective permission set. For
// administrators that is the entire active catalog.
func (ctrl *AuthController) MyPermissions(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	permissions, err := ctrl.resolver.EffectivePermissions(c.Request.Context(), user)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	if permissions == nil {
		permissions = []model.Permission{}
	}

	util.Respond(c, http.StatusOK, "Effective permissions", permissionsResponse{
		User:        user.Summary(),
		RoleCode:    user.Role.Code(),
		Permissions: permissions,
	})
}
