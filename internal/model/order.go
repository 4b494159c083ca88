package model

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderInProgress OrderStatus = "en_proceso"
	OrderSold       OrderStatus = "vendido"
	OrderCancelled  OrderStatus = "cancelado"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderInProgress, OrderSold, OrderCancelled:
		return true
	}
	return false
}

// Holding reports whether an order in this status keeps its quantity out of stock.
func (s OrderStatus) Holding() bool {
	return s != OrderCancelled
}

// ErrOrderItem is returned when an order does not name exactly one item.
var ErrOrderItem = errors.New("order must reference exactly one of product or subproduct")

// Order is a customer request for a quantity of exactly one item.
type Order struct {
	BaseModel
	Comment      string      `gorm:"type:varchar(255);not null" json:"comment"`
	ProductID    *uuid.UUID  `gorm:"type:uuid;index;check:chk_orders_single_item,(product_id IS NULL) <> (sub_product_id IS NULL)" json:"product_id"`
	Product      *Product    `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	SubProductID *uuid.UUID  `gorm:"type:uuid;index" json:"subproduct_id"`
	SubProduct   *SubProduct `gorm:"foreignKey:SubProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"subproduct,omitempty"`
	Quantity     int         `gorm:"not null;check:chk_orders_quantity,quantity > 0" json:"quantity"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'en_proceso';index" json:"status"`
	UserID       string      `gorm:"type:varchar(255);not null" json:"user_id"`
}

// Item returns the reference the order is booked against.
func (o *Order) Item() ItemRef {
	if o.ProductID != nil {
		return ProductRef(*o.ProductID)
	}
	if o.SubProductID != nil {
		return SubProductRef(*o.SubProductID)
	}
	return ItemRef{}
}

// SetItem points the order at ref and clears the other reference.
func (o *Order) SetItem(ref ItemRef) {
	id := ref.ID
	o.ProductID, o.SubProductID = nil, nil
	o.Product, o.SubProduct = nil, nil
	switch ref.Type {
	case ItemProduct:
		o.ProductID = &id
	case ItemSubProduct:
		o.SubProductID = &id
	}
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	if (o.ProductID == nil) == (o.SubProductID == nil) {
		return ErrOrderItem
	}
	return nil
}
