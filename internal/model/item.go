package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemType discriminates the two kinds of stocked item.
type ItemType string

const (
	ItemProduct    ItemType = "producto"
	ItemSubProduct ItemType = "subproducto"
)

func (t ItemType) Valid() bool {
	return t == ItemProduct || t == ItemSubProduct
}

// Label is the human name used in error messages.
func (t ItemType) Label() string {
	switch t {
	case ItemProduct:
		return "product"
	case ItemSubProduct:
		return "subproduct"
	default:
		return "item"
	}
}

// ParseItemType accepts the stored value as well as the English labels.
func ParseItemType(s string) (ItemType, error) {
	switch s {
	case string(ItemProduct), "product":
		return ItemProduct, nil
	case string(ItemSubProduct), "subproduct":
		return ItemSubProduct, nil
	}
	return "", fmt.Errorf("invalid item type %q", s)
}

// ItemRef points at exactly one Product or SubProduct.
type ItemRef struct {
	ID   uuid.UUID `json:"id"`
	Type ItemType  `json:"type"`
}

func ProductRef(id uuid.UUID) ItemRef    { return ItemRef{ID: id, Type: ItemProduct} }
func SubProductRef(id uuid.UUID) ItemRef { return ItemRef{ID: id, Type: ItemSubProduct} }

func (r ItemRef) IsZero() bool { return r.ID == uuid.Nil && r.Type == "" }

func (r ItemRef) String() string {
	return string(r.Type) + ":" + r.ID.String()
}

// ItemSummary is the display projection joined onto movements and alerts.
type ItemSummary struct {
	ID       uuid.UUID `json:"id"`
	Type     ItemType  `json:"type"`
	Name     string    `json:"name"`
	Code     string    `json:"code"`
	Category string    `json:"category"`
	Stock    int       `json:"stock"`
}

func (s ItemSummary) Ref() ItemRef { return ItemRef{ID: s.ID, Type: s.Type} }

// Item is implemented by every stocked catalogue row.
type Item interface {
	Ref() ItemRef
	CurrentStock() int
	Summary() ItemSummary
}
