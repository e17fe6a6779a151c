// Package export renders the expense table as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/buzz39/expense-tracker/internal/core"
)

var csvHeader = []string{"Name", "Amount", "Category", "Date", "Comment"}

// WriteCSV streams the table as CSV. Amounts are written in rupees with
// two decimals, dates as YYYY-MM-DD.
func WriteCSV(w io.Writer, records []core.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range records {
		row := []string{
			e.Name,
			strconv.FormatFloat(e.Amount.Rupees(), 'f', 2, 64),
			e.Category,
			e.Date.String(),
			e.Comment,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
