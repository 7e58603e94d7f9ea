package export

import (
	"fmt"
	"io"

	"fjacquet/budget-csv/internal/analytics"
	"fjacquet/budget-csv/internal/models"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX workbook.
const (
	SheetTransactions = "Transactions"
	SheetMonthly      = "Monthly"
)

var transactionHeaders = []string{"Date", "Text", "Amount", "Currency", "Category", "Balance", "File"}

var monthlyHeaders = []string{"Month", "Income", "Expenses", "Net"}

func (e *Exporter) writeXLSX(w io.Writer, txs []models.Transaction) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	// The default sheet becomes the transactions sheet.
	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return fmt.Errorf("failed to create transactions sheet: %w", err)
	}
	if err := writeTransactionSheet(f, txs); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetMonthly); err != nil {
		return fmt.Errorf("failed to create monthly sheet: %w", err)
	}
	if err := writeMonthlySheet(f, analytics.MonthlyStats(txs)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		e.logger.WithError(err).Error("Failed to write workbook")
		return fmt.Errorf("error writing XLSX data: %w", err)
	}
	return nil
}

func writeTransactionSheet(f *excelize.File, txs []models.Transaction) error {
	if err := writeHeader(f, SheetTransactions, transactionHeaders); err != nil {
		return err
	}

	for idx, t := range txs {
		values := []interface{}{
			t.Date,
			t.Text,
			t.Amount.InexactFloat64(),
			t.Currency,
			t.Category,
			nil,
			t.FileID,
		}
		if t.HasBalance() {
			values[5] = t.Balance.InexactFloat64()
		}
		if err := writeRow(f, SheetTransactions, idx+2, values); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 12, "B": 35, "C": 12, "D": 10, "E": 15, "F": 12, "G": 38}
	for col, width := range widths {
		if err := f.SetColWidth(SheetTransactions, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return nil
}

func writeMonthlySheet(f *excelize.File, stats []models.MonthlyStats) error {
	if err := writeHeader(f, SheetMonthly, monthlyHeaders); err != nil {
		return err
	}
	for idx, m := range stats {
		values := []interface{}{
			m.Month,
			m.Income.InexactFloat64(),
			m.Expenses.InexactFloat64(),
			m.Net().InexactFloat64(),
		}
		if err := writeRow(f, SheetMonthly, idx+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeRow(f, sheet, 1, values)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
