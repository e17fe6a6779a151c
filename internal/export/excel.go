package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/buzz39/expense-tracker/internal/core"
	"github.com/buzz39/expense-tracker/internal/report"
)

const sheetName = "Expenses"

// WriteXLSX renders the table as a styled workbook with a summary row.
func WriteXLSX(w io.Writer, records []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 40)

	for i, header := range csvHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, e := range records {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Amount.Rupees())
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Date.String())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Comment)
	}

	summary := report.Summarize(records)
	summaryRow := len(records) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), summary.Total.Rupees())
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("%d records", summary.Count))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow), summaryStyle)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
