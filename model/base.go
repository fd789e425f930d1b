// model/base.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the audit columns shared by every persisted entity:
// UUID primary key, timestamps, actor references and the soft-delete pair.
type Base struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *uuid.UUID `gorm:"type:char(36)" json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID `gorm:"type:char(36)" json:"updated_by,omitempty"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
