// Package report renders the movement log as a spreadsheet for the back office.
package report

import (
	"fmt"
	"io"

	"lubricentro-ws/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	movementsSheet  = "Movimientos"
)

var movementHeader = []interface{}{
	"Fecha", "Tipo", "Código", "Artículo", "Clase", "Cantidad",
	"Stock anterior", "Stock posterior", "Pedido", "Usuario", "Nota",
}

func movementRow(m *model.StockMovement) []interface{} {
	var code, name string
	if m.Item != nil {
		code, name = m.Item.Code, m.Item.Name
	}
	order := ""
	if m.OrderID != nil {
		order = m.OrderID.String()
	}
	return []interface{}{
		m.OccurredAt.Format("2006-01-02 15:04:05"),
		string(m.Kind),
		code,
		name,
		m.ItemType.Label(),
		m.Quantity,
		m.StockBefore,
		m.StockAfter,
		order,
		m.UserID,
		m.Note,
	}
}

// WriteMovements writes movements, in the order given, as an xlsx workbook to w.
func WriteMovements(w io.Writer, movements []model.StockMovement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", movementsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(movementsSheet, "A1", &movementHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(movementHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(movementsSheet, "A1", last, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(movementsSheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(movementsSheet, "D", "D", 32); err != nil {
		return err
	}

	for i := range movements {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := movementRow(&movements[i])
		if err := f.SetSheetRow(movementsSheet, cell, &row); err != nil {
			return fmt.Errorf("write movement %s: %w", movements[i].ID, err)
		}
	}
	return f.Write(w)
}
