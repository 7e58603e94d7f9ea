// Package export writes transactions to CSV, XLSX or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/budget-csv/internal/fileutils"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/validation"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter is used for CSV output when none is configured.
const DefaultDelimiter = ','

// Exporter renders transactions in one of the supported output formats.
type Exporter struct {
	logger    logging.Logger
	delimiter rune
}

// NewExporter creates an exporter. A zero delimiter selects DefaultDelimiter.
func NewExporter(logger logging.Logger, delimiter rune) *Exporter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Exporter{logger: logger, delimiter: delimiter}
}

// row is the flat CSV shape of a transaction.
type row struct {
	ID       string `csv:"id"`
	Date     string `csv:"date"`
	Text     string `csv:"text"`
	Amount   string `csv:"amount"`
	Currency string `csv:"currency"`
	Category string `csv:"category"`
	Balance  string `csv:"balance"`
	FileID   string `csv:"fileId"`
}

func toRow(t models.Transaction) row {
	r := row{
		ID:       t.ID,
		Date:     t.Date,
		Text:     t.Text,
		Amount:   t.Amount.StringFixed(2),
		Currency: t.Currency,
		Category: t.Category,
		FileID:   t.FileID,
	}
	if t.HasBalance() {
		r.Balance = t.Balance.StringFixed(2)
	}
	return r
}

// WriteFile writes transactions to path. An empty format is derived from the extension.
func (e *Exporter) WriteFile(path string, txs []models.Transaction, format string) error {
	if format == "" {
		format = validation.FormatFromPath(path)
	}
	format = strings.ToLower(format)
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}

	file, err := fileutils.CreateFile(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			e.logger.WithError(closeErr).Warn("Failed to close export file",
				logging.F(logging.FieldOutputFile, path))
		}
	}()

	if err := e.Write(file, txs, format); err != nil {
		return err
	}

	e.logger.Info("Exported transactions",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldFormat, format),
		logging.F(logging.FieldCount, len(txs)))
	return nil
}

// Write renders transactions to w in the given format.
func (e *Exporter) Write(w io.Writer, txs []models.Transaction, format string) error {
	switch strings.ToLower(format) {
	case validation.FormatCSV:
		return e.writeCSV(w, txs)
	case validation.FormatXLSX:
		return e.writeXLSX(w, txs)
	case validation.FormatJSON:
		return e.writeJSON(w, txs)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func (e *Exporter) writeCSV(w io.Writer, txs []models.Transaction) error {
	rows := make([]row, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, toRow(t))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		e.logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

func (e *Exporter) writeJSON(w io.Writer, txs []models.Transaction) error {
	if txs == nil {
		txs = []models.Transaction{}
	}
	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON export: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON export: %w", err)
	}
	return nil
}
