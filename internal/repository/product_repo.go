package repository

import (
	"context"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Category model.ProductCategory
	Search   string
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(ctx context.Context, f ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(tx *gorm.DB, product *model.Product, deletedBy string) error
	Count(ctx context.Context) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Order("name ASC")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(code) LIKE LOWER(?) OR LOWER(brand) LIKE LOWER(?)", like, like, like)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update writes catalogue fields only; stock belongs to the ledger.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("code", "name", "description", "price", "brand", "category", "subcategory", "updated_by", "updated_at").
		Updates(product).Error
}

// Delete runs inside the caller's tx, which also holds the row lock taken
// while checking for open orders.
func (r *productRepo) Delete(tx *gorm.DB, product *model.Product, deletedBy string) error {
	if err := tx.Model(product).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(product).Error
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}
