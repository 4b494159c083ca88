package database

import (
	"fmt"

	"lubricentro-ws/internal/model"

	"gorm.io/gorm"
)

// Models lists every table owned by the application, in dependency order.
var Models = []interface{}{
	&model.Privilege{},
	&model.Role{},
	&model.User{},
	&model.Product{},
	&model.SubProduct{},
	&model.Vehicle{},
	&model.Order{},
	&model.StockMovement{},
}

// Migrate patches legacy movement rows and then auto-migrates all models.
func Migrate(db *gorm.DB) error {
	if err := patchLegacyMovements(db); err != nil {
		return fmt.Errorf("patch legacy movements: %w", err)
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// patchLegacyMovements converts a stock_movements table that still carries the
// flat product_id column into the polymorphic item_id/item_type shape. Running
// it again is a no-op.
func patchLegacyMovements(db *gorm.DB) error {
	m := db.Migrator()
	mv := &model.StockMovement{}
	if !m.HasTable(mv) || !m.HasColumn(mv, "product_id") {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		tm := tx.Migrator()
		if !tm.HasColumn(mv, "legacy_product_id") {
			if err := tx.Exec("ALTER TABLE stock_movements RENAME COLUMN product_id TO legacy_product_id").Error; err != nil {
				return err
			}
		}
		if !tm.HasColumn(mv, "item_id") {
			if err := tx.Exec("ALTER TABLE stock_movements ADD COLUMN item_id uuid").Error; err != nil {
				return err
			}
		}
		if !tm.HasColumn(mv, "item_type") {
			if err := tx.Exec("ALTER TABLE stock_movements ADD COLUMN item_type varchar(20)").Error; err != nil {
				return err
			}
		}
		return tx.Exec(
			"UPDATE stock_movements SET item_id = legacy_product_id, item_type = ? WHERE item_id IS NULL AND legacy_product_id IS NOT NULL",
			model.ItemProduct,
		).Error
	})
}
