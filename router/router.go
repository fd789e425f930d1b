// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/auth"
	"github.com/revguard/api/controller"
	"github.com/revguard/api/dao"
	"github.com/revguard/api/metrics"
	"github.com/revguard/api/middleware"
	"github.com/revguard/api/model"
)

// Dependencies carries everything the route table needs beyond the
// controllers themselves.
type Dependencies struct {
	Controllers  *controller.Controllers
	UserDAO      *dao.UserDAO
	Revocations  auth.TokenRevocations
	AuditService audit.Service

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(deps.AuditService))
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())
	if deps.RateLimitRequests > 0 {
		router.Use(middleware.RateLimiter(deps.RateLimitRequests, deps.RateLimitWindow))
	}

	router.GET("/health", deps.Controllers.Health.Health)
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api/v1")

	public := api.Group("/public")
	{
		public.POST("/login", deps.Controllers.Auth.Login)
	}

	authenticated := api.Group("")
	authenticated.Use(auth.Authenticate(deps.UserDAO, deps.Revocations))
	authenticated.Use(auth.RequireActive())
	{
		authenticated.POST("/logout", deps.Controllers.Auth.Logout)
		authenticated.GET("/me/permissions", deps.Controllers.Auth.MyPermissions)

		// Any authenticated user may fetch a single user; the controller
		// restricts non-admins to their own record.
		authenticated.GET("/users/:id", deps.Controllers.User.GetUser)
	}

	admin := api.Group("")
	admin.Use(auth.Authenticate(deps.UserDAO, deps.Revocations))
	admin.Use(auth.RequireActive())
	admin.Use(auth.RequireRole(model.RoleAdmin))
	{
		admin.GET("/users", deps.Controllers.User.ListUsers)
		admin.POST("/users", deps.Controllers.User.CreateUser)
		admin.PUT("/users/:id", deps.Controllers.User.UpdateUser)
		admin.DELETE("/users/:id", deps.Controllers.User.DeleteUser)
		admin.PATCH("/users/:id/status", deps.Controllers.User.SetUserStatus)

		admin.GET("/departments", deps.Controllers.Department.ListDepartments)
		admin.GET("/departments/:id", deps.Controllers.Department.GetDepartment)
		admin.POST("/departments", deps.Controllers.Department.CreateDepartment)
		admin.PUT("/departments/:id", deps.Controllers.Department.UpdateDepartment)
		admin.DELETE("/departments/:id", deps.Controllers.Department.DeleteDepartment)

		admin.GET("/roles", deps.Controllers.Role.ListRoles)
		admin.GET("/roles/:id", deps.Controllers.Role.GetRole)
		admin.POST("/roles", deps.Controllers.Role.CreateRole)
		admin.PUT("/roles/:id", deps.Controllers.Role.UpdateRole)
		admin.DELETE("/roles/:id", deps.Controllers.Role.DeleteRole)
		admin.GET("/permissions", deps.Controllers.Role.ListPermissions)

		admin.GET("/audit-logs", deps.Controllers.Audit.ListLogs)
		admin.GET("/audit-logs/errors", deps.Controllers.Audit.ListErrors)
		admin.GET("/audit-logs/:id", deps.Controllers.Audit.GetLog)
	}

	return router
}
