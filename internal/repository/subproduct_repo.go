package repository

import (
	"context"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubProductFilter struct {
	Category model.SubProductCategory
	Search   string
}

type SubProductRepository interface {
	Create(tx *gorm.DB, subproduct *model.SubProduct) error
	FindAll(ctx context.Context, f SubProductFilter) ([]model.SubProduct, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.SubProduct, error)
	FindByCode(ctx context.Context, code string) (*model.SubProduct, error)
	Update(ctx context.Context, subproduct *model.SubProduct) error
	Delete(tx *gorm.DB, subproduct *model.SubProduct, deletedBy string) error
	Count(ctx context.Context) (int64, error)
}

type subProductRepo struct {
	db *gorm.DB
}

func NewSubProductRepo(db *gorm.DB) SubProductRepository {
	return &subProductRepo{db}
}

func (r *subProductRepo) Create(tx *gorm.DB, subproduct *model.SubProduct) error {
	return tx.Create(subproduct).Error
}

func (r *subProductRepo) FindAll(ctx context.Context, f SubProductFilter) ([]model.SubProduct, error) {
	var subproducts []model.SubProduct
	q := r.db.WithContext(ctx).Order("name ASC")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(code) LIKE LOWER(?) OR LOWER(brand) LIKE LOWER(?)", like, like, like)
	}
	err := q.Find(&subproducts).Error
	return subproducts, err
}

func (r *subProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SubProduct, error) {
	var subproduct model.SubProduct
	if err := r.db.WithContext(ctx).First(&subproduct, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subproduct, nil
}

func (r *subProductRepo) FindByCode(ctx context.Context, code string) (*model.SubProduct, error) {
	var subproduct model.SubProduct
	if err := r.db.WithContext(ctx).First(&subproduct, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &subproduct, nil
}

// Update writes catalogue fields only; stock belongs to the ledger.
func (r *subProductRepo) Update(ctx context.Context, subproduct *model.SubProduct) error {
	return r.db.WithContext(ctx).Model(subproduct).
		Select("code", "name", "description", "price", "brand", "category", "updated_by", "updated_at").
		Updates(subproduct).Error
}

// Delete runs inside the caller's tx, which also holds the row lock taken
// while checking for open orders.
func (r *subProductRepo) Delete(tx *gorm.DB, subproduct *model.SubProduct, deletedBy string) error {
	if err := tx.Model(subproduct).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(subproduct).Error
}

func (r *subProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SubProduct{}).Count(&n).Error
	return n, err
}
