// audit/repository.go
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Filter narrows the audit query surface. Zero values mean "no filter".
type Filter struct {
	Skip         int
	Limit        int
	DateFrom     *time.Time
	DateTo       *time.Time
	UserID       *uuid.UUID
	ActionType   ActionType
	ResourceType ResourceType
	Status       Status
	Severity     Severity
	ErrorType    string // substring match
	Search       string // substring match over description
}

// ErrorFilter narrows the error-only view. Search also covers stack traces.
type ErrorFilter struct {
	Skip      int
	Limit     int
	DateFrom  *time.Time
	DateTo    *time.Time
	Severity  Severity
	ErrorType string
	Search    string
}

// Repository is the durable audit sink plus its query surface.
type Repository interface {
	Create(ctx context.Context, entry *Log) error
	GetByID(ctx context.Context, id uuid.UUID) (*Log, error)
	List(ctx context.Context, filter Filter) ([]Log, int64, error)
	ListErrors(ctx context.Context, filter ErrorFilter) ([]Log, int64, error)
}

// GormRepository persists audit entries in the audit_logs table.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var _ Repository = &GormRepository{}

// AutoMigrate creates the audit_logs table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Log{})
}

func (r *GormRepository) Create(ctx context.Context, entry *Log) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Log, error) {
	var entry Log
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// clampLimit applies the default page size and the hard cap.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func (r *GormRepository) List(ctx context.Context, filter Filter) ([]Log, int64, error) {
	query := r.db.WithContext(ctx).Model(&Log{})

	if filter.DateFrom != nil {
		query = query.Where("timestamp >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("timestamp <= ?", *filter.DateTo)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.ErrorType != "" {
		query = query.Where("error_type LIKE ?", "%"+filter.ErrorType+"%")
	}
	if filter.Search != "" {
		query = query.Where("description LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []Log
	err := query.
		Preload("User").
		Order("timestamp DESC").
		Offset(filter.Skip).
		Limit(clampLimit(filter.Limit)).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *GormRepository) ListErrors(ctx context.Context, filter ErrorFilter) ([]Log, int64, error) {
	query := r.db.WithContext(ctx).Model(&Log{}).
		Where("status = ?", StatusError)

	if filter.DateFrom != nil {
		query = query.Where("timestamp >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("timestamp <= ?", *filter.DateTo)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.ErrorType != "" {
		query = query.Where("error_type LIKE ?", "%"+filter.ErrorType+"%")
	}
	if filter.Search != "" {
		// The error view searches stack traces too.
		pattern := "%" + filter.Search + "%"
		query = query.Where("description LIKE ? OR stack_trace LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []Log
	err := query.
		Preload("User").
		Order("timestamp DESC").
		Offset(filter.Skip).
		Limit(clampLimit(filter.Limit)).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
