package model

import "github.com/shopspring/decimal"

type SubProductCategory string

const (
	CategorySpareParts          SubProductCategory = "repuestos"
	CategoryCleaning            SubProductCategory = "limpieza"
	CategoryExteriorAccessories SubProductCategory = "accesorios externos"
	CategoryElectricAccessories SubProductCategory = "accesorios eléctricos"
)

func (c SubProductCategory) Valid() bool {
	switch c {
	case CategorySpareParts, CategoryCleaning, CategoryExteriorAccessories, CategoryElectricAccessories:
		return true
	}
	return false
}

// SubProduct is a secondary catalogue item (spare parts, cleaning, accessories).
type SubProduct struct {
	BaseModel
	Code        string             `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string             `gorm:"type:varchar(255);not null" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	Price       decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Stock       int                `gorm:"not null;default:0;check:chk_sub_products_stock,stock >= 0" json:"stock"`
	Brand       string             `gorm:"type:varchar(100)" json:"brand"`
	Category    SubProductCategory `gorm:"type:varchar(30);not null;index" json:"category"`
}

func (p *SubProduct) Ref() ItemRef      { return SubProductRef(p.ID) }
func (p *SubProduct) CurrentStock() int { return p.Stock }

func (p *SubProduct) Summary() ItemSummary {
	return ItemSummary{ID: p.ID, Type: ItemSubProduct, Name: p.Name, Code: p.Code, Category: string(p.Category), Stock: p.Stock}
}
