// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps transactions serialised like row locks would
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// SeedProduct inserts a product with the given stock directly, bypassing the ledger.
func SeedProduct(t *testing.T, db *gorm.DB, code string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Code:        code,
		Name:        "Aceite " + code,
		Price:       decimal.NewFromInt(1000),
		Stock:       stock,
		Category:    model.CategoryOil,
		Subcategory: model.ClassCar,
	}
	p.Stamp(model.SystemActor)
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedSubProduct inserts a subproduct with the given stock directly.
func SeedSubProduct(t *testing.T, db *gorm.DB, code string, stock int) *model.SubProduct {
	t.Helper()
	p := &model.SubProduct{
		Code:     code,
		Name:     "Repuesto " + code,
		Price:    decimal.NewFromInt(250),
		Stock:    stock,
		Category: model.CategorySpareParts,
	}
	p.Stamp(model.SystemActor)
	require.NoError(t, db.Create(p).Error)
	return p
}

// Stock reads the current stock of ref.
func Stock(t *testing.T, db *gorm.DB, ref model.ItemRef) int {
	t.Helper()
	var stock int
	table := "products"
	if ref.Type == model.ItemSubProduct {
		table = "sub_products"
	}
	require.NoError(t, db.Table(table).Select("stock").Where("id = ?", ref.ID).Scan(&stock).Error)
	return stock
}

// Movements returns every movement booked against ref, oldest first.
func Movements(t *testing.T, db *gorm.DB, ref model.ItemRef) []model.StockMovement {
	t.Helper()
	var ms []model.StockMovement
	require.NoError(t, db.Where("item_id = ? AND item_type = ?", ref.ID, ref.Type).
		Order("occurred_at ASC").Find(&ms).Error)
	return ms
}
