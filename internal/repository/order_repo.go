package repository

import (
	"context"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status model.OrderStatus
	Item   *model.ItemRef
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindAll(ctx context.Context, f OrderFilter) ([]model.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	Save(tx *gorm.DB, order *model.Order) error
	Delete(tx *gorm.DB, order *model.Order, deletedBy string) error
	CountHolding(tx *gorm.DB, ref model.ItemRef) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func withItems(db *gorm.DB) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return db.Preload("Product", unscoped).Preload("SubProduct", unscoped)
}

func itemColumn(ref model.ItemRef) string {
	if ref.Type == model.ItemSubProduct {
		return "sub_product_id"
	}
	return "product_id"
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Omit(clause.Associations).Create(order).Error
}

func (r *orderRepo) FindAll(ctx context.Context, f OrderFilter) ([]model.Order, error) {
	q := withItems(r.db.WithContext(ctx)).Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Item != nil {
		q = q.Where(itemColumn(*f.Item)+" = ?", f.Item.ID)
	}
	var orders []model.Order
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := withItems(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForUpdate locks the order row so concurrent edits of the same order serialise.
func (r *orderRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) Save(tx *gorm.DB, order *model.Order) error {
	return tx.Omit(clause.Associations).Save(order).Error
}

func (r *orderRepo) Delete(tx *gorm.DB, order *model.Order, deletedBy string) error {
	order.DeletedBy = deletedBy
	if err := tx.Model(order).Omit(clause.Associations).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(order).Error
}

// CountHolding counts live orders that still keep stock of ref reserved.
func (r *orderRepo) CountHolding(tx *gorm.DB, ref model.ItemRef) (int64, error) {
	var n int64
	err := tx.Model(&model.Order{}).
		Where(itemColumn(ref)+" = ?", ref.ID).
		Where("status <> ?", model.OrderCancelled).
		Count(&n).Error
	return n, err
}

func (r *orderRepo) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
