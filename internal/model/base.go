package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SystemActor is recorded as the acting user for changes nobody requested
// directly, such as seeding. It must be passed explicitly.
const SystemActor = "system"

// BaseModel handles ID (UUID) and standard Audit Trails
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CreatedBy string `json:"created_by"`
	UpdatedBy string `json:"updated_by"`
	DeletedBy string `json:"deleted_by,omitempty"`
}

// BeforeCreate assigns a fresh UUID unless the caller already picked one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// Stamp sets the audit fields for a row created by actor.
func (base *BaseModel) Stamp(actor string) {
	base.CreatedBy = actor
	base.UpdatedBy = actor
}
