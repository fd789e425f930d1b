// db/db.go
package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/revguard/api/config"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
)

var DB *gorm.DB

// InitDB opens the relational store and sizes the connection pool from
// configuration: poolSize idle connections, poolSize+maxOverflow open.
func InitDB() error {
	dsn := config.GetString("database.dsn")
	logger.Info("Connecting to database")

	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}

	poolSize := config.GetInt("database.poolSize")
	sqlDB.SetMaxIdleConns(poolSize)
	sqlDB.SetMaxOpenConns(poolSize + config.GetInt("database.maxOverflow"))
	sqlDB.SetConnMaxLifetime(config.GetDuration("database.connMaxLifetime"))

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gdb
	logger.Info("Successfully connected to database",
		zap.Int("poolSize", poolSize),
		zap.Int("maxOverflow", config.GetInt("database.maxOverflow")))
	return nil
}

// Migrate creates or updates the entity tables plus the role_permissions
// junction table GORM derives from the many2many tags. The audit_logs table
// is owned by the audit package and migrated there.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Department{},
		&model.User{},
		&model.Permission{},
		&model.Role{},
	)
}

func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Error("Error accessing connection pool on shutdown", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
