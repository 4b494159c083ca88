package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementKind string

const (
	MovementIn  MovementKind = "entrada"
	MovementOut MovementKind = "salida"
)

func (k MovementKind) Valid() bool {
	return k == MovementIn || k == MovementOut
}

// ErrMovementImmutable is returned by any attempt to update a stored movement.
var ErrMovementImmutable = errors.New("stock movements are append-only")

// StockMovement is one entry of the stock audit log. Rows are only ever inserted.
type StockMovement struct {
	ID       uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_stock_movements_item,priority:1" json:"item_id"`
	ItemType ItemType     `gorm:"type:varchar(20);not null;index:idx_stock_movements_item,priority:2" json:"item_type"`
	Kind     MovementKind `gorm:"type:varchar(10);not null" json:"kind"`
	Quantity int          `gorm:"not null;check:chk_stock_movements_quantity,quantity > 0" json:"quantity"`

	StockBefore int `gorm:"not null" json:"stock_before"`
	StockAfter  int `gorm:"not null" json:"stock_after"`

	Note       string     `gorm:"type:varchar(500)" json:"note"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
	UserID     string     `gorm:"type:varchar(255);not null" json:"user_id"`
	OccurredAt time.Time  `gorm:"not null;index" json:"occurred_at"`

	// Flat product reference written before movements became polymorphic.
	LegacyProductID *uuid.UUID `gorm:"type:uuid;index" json:"-"`

	Item *ItemSummary `gorm:"-" json:"item,omitempty"`
}

func (StockMovement) TableName() string { return "stock_movements" }

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.OccurredAt.IsZero() {
		m.OccurredAt = time.Now()
	}
	return nil
}

func (m *StockMovement) BeforeUpdate(tx *gorm.DB) error {
	return ErrMovementImmutable
}

func (m *StockMovement) BeforeDelete(tx *gorm.DB) error {
	return ErrMovementImmutable
}

func (m *StockMovement) Ref() ItemRef {
	return ItemRef{ID: m.ItemID, Type: m.ItemType}
}
