// Package export renders booking reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// OwnerReport writes an XLSX workbook listing every booking of the owner's
// items, one row per booking, to w.
func OwnerReport(w io.Writer, owner *models.User, items []models.Item, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings of %s <%s>", owner.Name, owner.Email))
	_ = f.MergeCell(sheetName, "A1", "F1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Booking ID", "Item", "Booker ID", "Start", "End", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	itemNames := make(map[int64]string, len(items))
	for _, item := range items {
		itemNames[item.ID] = item.Name
	}

	for i, b := range bookings {
		row := i + 3
		values := []interface{}{
			b.ID,
			itemNames[b.ItemID],
			b.BookerID,
			b.Start.Format("2006-01-02 15:04"),
			b.End.Format("2006-01-02 15:04"),
			string(b.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "F", 20)
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
