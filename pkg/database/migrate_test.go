package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestPatchLegacyMovementsBackfillsItemReference(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.Exec(`CREATE TABLE stock_movements (
		id text PRIMARY KEY,
		product_id text,
		kind text,
		quantity integer
	)`).Error)

	productID := uuid.New()
	require.NoError(t, db.Exec("INSERT INTO stock_movements (id, product_id, kind, quantity) VALUES (?, ?, 'entrada', 4)",
		uuid.NewString(), productID.String()).Error)

	require.NoError(t, patchLegacyMovements(db))
	// second run must not fail or touch anything
	require.NoError(t, patchLegacyMovements(db))

	var row struct {
		ItemID          string
		ItemType        string
		LegacyProductID string
	}
	require.NoError(t, db.Raw("SELECT item_id, item_type, legacy_product_id FROM stock_movements").Scan(&row).Error)
	assert.Equal(t, productID.String(), row.ItemID)
	assert.Equal(t, "producto", row.ItemType)
	assert.Equal(t, productID.String(), row.LegacyProductID)
}

func TestPatchLegacyMovementsSkipsFreshSchema(t *testing.T) {
	db := openSQLite(t)
	assert.NoError(t, patchLegacyMovements(db))
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasColumn("stock_movements", "item_id"))
	// a second start over the migrated schema is a no-op
	assert.NoError(t, Migrate(db))
}
