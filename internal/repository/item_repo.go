package repository

import (
	"context"
	"fmt"
	"sort"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository resolves ItemRefs to concrete catalogue rows. It is the only
// code path that writes the stock column.
type ItemRepository interface {
	Find(ctx context.Context, ref model.ItemRef) (model.Item, error)
	FindForUpdate(tx *gorm.DB, ref model.ItemRef) (model.Item, error)
	UpdateStock(tx *gorm.DB, ref model.ItemRef, newStock int, updatedBy string) error
	Summaries(ctx context.Context, refs []model.ItemRef) (map[model.ItemRef]model.ItemSummary, error)
	LowStock(ctx context.Context, limit int) ([]model.ItemSummary, error)
	Valuation(ctx context.Context) (decimal.Decimal, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func newItem(t model.ItemType) (model.Item, error) {
	switch t {
	case model.ItemProduct:
		return &model.Product{}, nil
	case model.ItemSubProduct:
		return &model.SubProduct{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, t)
}

func (r *itemRepo) Find(ctx context.Context, ref model.ItemRef) (model.Item, error) {
	item, err := newItem(ref.Type)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(item, "id = ?", ref.ID).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindForUpdate reads the item inside tx holding a row lock until tx ends.
func (r *itemRepo) FindForUpdate(tx *gorm.DB, ref model.ItemRef) (model.Item, error) {
	item, err := newItem(ref.Type)
	if err != nil {
		return nil, err
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(item, "id = ?", ref.ID).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateStock receives the caller's tx so the write commits with its movement.
func (r *itemRepo) UpdateStock(tx *gorm.DB, ref model.ItemRef, newStock int, updatedBy string) error {
	item, err := newItem(ref.Type)
	if err != nil {
		return err
	}
	res := tx.Model(item).
		Where("id = ?", ref.ID).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Summaries includes soft-deleted items so history keeps its labels.
func (r *itemRepo) Summaries(ctx context.Context, refs []model.ItemRef) (map[model.ItemRef]model.ItemSummary, error) {
	out := make(map[model.ItemRef]model.ItemSummary, len(refs))
	var productIDs, subIDs []uuid.UUID
	for _, ref := range refs {
		switch ref.Type {
		case model.ItemProduct:
			productIDs = append(productIDs, ref.ID)
		case model.ItemSubProduct:
			subIDs = append(subIDs, ref.ID)
		}
	}

	// each kind needs its own chain so the id filters do not accumulate
	unscoped := func() *gorm.DB { return r.db.WithContext(ctx).Unscoped() }
	if len(productIDs) > 0 {
		var products []model.Product
		if err := unscoped().Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return nil, err
		}
		for i := range products {
			s := products[i].Summary()
			out[s.Ref()] = s
		}
	}
	if len(subIDs) > 0 {
		var subs []model.SubProduct
		if err := unscoped().Where("id IN ?", subIDs).Find(&subs).Error; err != nil {
			return nil, err
		}
		for i := range subs {
			s := subs[i].Summary()
			out[s.Ref()] = s
		}
	}
	return out, nil
}

// LowStock lists items of both kinds with stock <= limit, lowest first.
func (r *itemRepo) LowStock(ctx context.Context, limit int) ([]model.ItemSummary, error) {
	db := r.db.WithContext(ctx)

	var products []model.Product
	if err := db.Where("stock <= ?", limit).Find(&products).Error; err != nil {
		return nil, err
	}
	var subs []model.SubProduct
	if err := db.Where("stock <= ?", limit).Find(&subs).Error; err != nil {
		return nil, err
	}

	out := make([]model.ItemSummary, 0, len(products)+len(subs))
	for i := range products {
		out = append(out, products[i].Summary())
	}
	for i := range subs {
		out = append(out, subs[i].Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Valuation is SUM(stock * price) over live products and subproducts.
func (r *itemRepo) Valuation(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range []interface{}{&model.Product{}, &model.SubProduct{}} {
		var rows []struct {
			Stock int
			Price decimal.Decimal
		}
		if err := r.db.WithContext(ctx).Model(m).Select("stock, price").Where("stock > 0").Scan(&rows).Error; err != nil {
			return decimal.Zero, err
		}
		for _, p := range rows {
			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		}
	}
	return total, nil
}
