package report

import (
	"bytes"
	"testing"
	"time"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteMovements(t *testing.T) {
	orderID := uuid.New()
	itemID := uuid.New()
	movements := []model.StockMovement{
		{
			ID: uuid.New(), ItemID: itemID, ItemType: model.ItemProduct,
			Kind: model.MovementOut, Quantity: 3, StockBefore: 10, StockAfter: 7,
			Note: "Order: cliente", OrderID: &orderID, UserID: "u-1",
			OccurredAt: time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC),
			Item:       &model.ItemSummary{ID: itemID, Type: model.ItemProduct, Name: "Aceite 5W30", Code: "ACE-5W30"},
		},
		{
			ID: uuid.New(), ItemID: uuid.New(), ItemType: model.ItemSubProduct,
			Kind: model.MovementIn, Quantity: 12, StockBefore: 0, StockAfter: 12,
			Note: "Initial stock", UserID: "system",
			OccurredAt: time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMovements(&buf, movements))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{movementsSheet}, f.GetSheetList())
	rows, err := f.GetRows(movementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, []string{
		"2026-03-04 09:30:00", "salida", "ACE-5W30", "Aceite 5W30", "product",
		"3", "10", "7", orderID.String(), "u-1", "Order: cliente",
	}, rows[1])
	assert.Equal(t, "entrada", rows[2][1])
	assert.Equal(t, "", rows[2][2], "missing item summary leaves the code blank")
	assert.Equal(t, "Initial stock", rows[2][10])
}

func TestWriteMovementsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMovements(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(movementsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
