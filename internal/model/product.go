package model

import "github.com/shopspring/decimal"

type ProductCategory string

const (
	CategoryOil     ProductCategory = "aceite"
	CategoryFilter  ProductCategory = "filtro"
	CategoryBattery ProductCategory = "bateria"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryOil, CategoryFilter, CategoryBattery:
		return true
	}
	return false
}

// VehicleClass is the product subcategory: the kind of vehicle it fits.
type VehicleClass string

const (
	ClassCar        VehicleClass = "auto"
	ClassPickup     VehicleClass = "camioneta"
	ClassCommercial VehicleClass = "vehiculo comercial"
	ClassMotorcycle VehicleClass = "motocicleta"
	ClassMachinery  VehicleClass = "maquinaria"
)

func (c VehicleClass) Valid() bool {
	switch c {
	case ClassCar, ClassPickup, ClassCommercial, ClassMotorcycle, ClassMachinery:
		return true
	}
	return false
}

type Product struct {
	BaseModel
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Stock       int             `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock"`
	Brand       string          `gorm:"type:varchar(100)" json:"brand"`
	Category    ProductCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Subcategory VehicleClass    `gorm:"type:varchar(30);not null" json:"subcategory"`
}

func (p *Product) Ref() ItemRef      { return ProductRef(p.ID) }
func (p *Product) CurrentStock() int { return p.Stock }

func (p *Product) Summary() ItemSummary {
	return ItemSummary{ID: p.ID, Type: ItemProduct, Name: p.Name, Code: p.Code, Category: string(p.Category), Stock: p.Stock}
}
