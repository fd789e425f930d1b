package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/auth"
	"github.com/revguard/api/config"
	"github.com/revguard/api/controller"
	"github.com/revguard/api/dao"
	"github.com/revguard/api/db"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/rbac"
	"github.com/revguard/api/router"
	"github.com/revguard/api/seed"
	"github.com/revguard/api/service"
	"github.com/revguard/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize the relational store
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()

	if err := db.Migrate(db.DB); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	if err := audit.AutoMigrate(db.DB); err != nil {
		logger.Fatal("Failed to migrate audit store", zap.Error(err))
	}

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Audit recorder with optional search mirror
	auditRepository := audit.NewGormRepository(db.DB)
	auditService := audit.NewService(auditRepository, eventBus)
	if config.GetBool("elasticsearch.enabled") {
		indexer, err := audit.NewElasticsearchIndexer(
			config.GetString("elasticsearch.url"),
			config.GetString("elasticsearch.index"),
		)
		if err != nil {
			logger.Fatal("Failed to initialize audit indexer", zap.Error(err))
		}
		eventBus.Subscribe(audit.EventRecorded, indexer.HandleRecorded)
	}

	// Bootstrap the catalog, system roles and admin account
	if config.GetBool("seed.enabled") {
		err := seed.Run(ctx, db.DB, seed.AdminSpec{
			Email:    config.GetString("seed.admin.email"),
			Username: config.GetString("seed.admin.username"),
			Password: config.GetString("seed.admin.password"),
			FullName: config.GetString("seed.admin.fullName"),
		})
		if err != nil {
			logger.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	// Initialize utilities and DAOs
	validationUtil := util.NewValidationUtil()
	userDAO := dao.NewUserDAO(db.DB)
	departmentDAO := dao.NewDepartmentDAO(db.DB)
	roleDAO := dao.NewRoleDAO(db.DB)
	permissionDAO := dao.NewPermissionDAO(db.DB)
	resolver := rbac.NewResolver(db.DB)

	// Initialize services
	authService := auth.NewService(userDAO)
	userService := service.NewUserService(userDAO, departmentDAO, auditService, validationUtil)
	departmentService := service.NewDepartmentService(departmentDAO, auditService, validationUtil)
	roleService := service.NewRoleService(roleDAO, permissionDAO, auditService, validationUtil)

	// Initialize controllers
	controllers := &controller.Controllers{
		Auth:       controller.NewAuthController(authService, auditService, resolver),
		User:       controller.NewUserController(userService),
		Department: controller.NewDepartmentController(departmentService),
		Role:       controller.NewRoleController(roleService),
		Audit:      controller.NewAuditController(auditService),
		Health:     controller.NewHealthController(db.DB),
	}

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(router.Dependencies{
		Controllers:       controllers,
		UserDAO:           userDAO,
		Revocations:       auth.RedisRevocations{},
		AuditService:      auditService,
		RateLimitRequests: config.GetInt("rateLimit.requests"),
		RateLimitWindow:   config.GetDuration("rateLimit.window"),
	})

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context gives in-flight requests 5 seconds to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
