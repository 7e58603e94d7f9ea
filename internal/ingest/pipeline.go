// Package ingest turns bank-statement CSV text into canonical, categorized
// transactions plus the manifest entry of the import batch.
package ingest

import (
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/budget-csv/internal/categorizer"
	"fjacquet/budget-csv/internal/currencyutils"
	"fjacquet/budget-csv/internal/dateutils"
	"fjacquet/budget-csv/internal/fileutils"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

const parserName = "csv"

// Result is the outcome of one ingestion: every transaction carries File.ID and
// File.Count equals len(Transactions).
type Result struct {
	Transactions []models.Transaction
	File         models.UploadedFile
}

// Pipeline ingests statement text. A zero delimiter means it is sniffed from the
// header line.
type Pipeline struct {
	logger          logging.Logger
	defaultCurrency string
	delimiter       rune
	idGen           func() string
	clock           func() time.Time
}

// NewPipeline creates a pipeline. An empty defaultCurrency means DKK.
func NewPipeline(logger logging.Logger, delimiter rune, defaultCurrency string) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	defaultCurrency = strings.ToUpper(strings.TrimSpace(defaultCurrency))
	if !isCurrencyCode(defaultCurrency) {
		defaultCurrency = models.DefaultCurrency
	}
	return &Pipeline{
		logger:          logger,
		defaultCurrency: defaultCurrency,
		delimiter:       delimiter,
		idGen:           uuid.NewString,
		clock:           time.Now,
	}
}

// IngestFile reads the statement at path, decoding legacy encodings, and ingests it
// under the file's base name unless label is set.
func (p *Pipeline) IngestFile(path, label string, classifier categorizer.Classifier) (Result, error) {
	text, err := fileutils.ReadStatement(path)
	if err != nil {
		return Result{}, err
	}
	if label == "" {
		label = filepath.Base(path)
	}
	p.logger.Info("Ingesting statement file",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldLabel, label))
	return p.Ingest(text, label, classifier)
}

// Ingest parses text as a headed CSV statement. Rows without a date are skipped and
// unparseable amounts become zero; only a structurally broken input fails, in which
// case no partial result is returned.
func (p *Pipeline) Ingest(text, label string, classifier categorizer.Classifier) (Result, error) {
	if classifier == nil {
		classifier = categorizer.NewKeywordClassifier()
	}

	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return Result{}, parsererror.NewParseFailure(parserName, "content", label, errors.New("input has no header row"))
	}

	delimiter := p.delimiter
	if delimiter == 0 {
		delimiter = SniffDelimiter(text)
	}

	reader := &headerCapturingReader{Reader: csv.NewReader(strings.NewReader(text))}
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows []statementRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		p.logger.WithError(err).Error("Failed to parse statement",
			logging.F(logging.FieldLabel, label),
			logging.F(logging.FieldDelimiter, string(delimiter)))
		return Result{}, parsererror.NewParseFailure(parserName, "content", label, err)
	}

	columns := detectColumns(reader.header)
	if !columns.date {
		p.logger.Warn("No date column found, every row will be skipped",
			logging.F(logging.FieldLabel, label),
			logging.F(logging.FieldDelimiter, string(delimiter)))
	}

	fileID := p.idGen()
	transactions := make([]models.Transaction, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		builder, ok := p.convertRow(row, columns, i+2)
		if !ok {
			skipped++
			continue
		}
		tx, err := builder.WithID(p.idGen()).WithFileID(fileID).Build()
		if err != nil {
			p.logger.WithError(err).Debug("Skipping invalid row", logging.F(logging.FieldRow, i+2))
			skipped++
			continue
		}
		tx.Category = classifier.Classify(tx.Text, tx.Amount)
		transactions = append(transactions, tx)
	}

	file := models.UploadedFile{
		ID:    fileID,
		Name:  label,
		Date:  p.clock(),
		Count: len(transactions),
	}

	p.logger.Info("Ingested statement",
		logging.F(logging.FieldLabel, label),
		logging.F(logging.FieldFileID, fileID),
		logging.F(logging.FieldCount, len(transactions)),
		logging.F(logging.FieldSkipped, skipped))

	return Result{Transactions: transactions, File: file}, nil
}

// convertRow resolves aliases and normalizes one row into a builder. It reports
// false when the row has no date.
func (p *Pipeline) convertRow(row statementRow, columns columnSet, line int) (*models.TransactionBuilder, bool) {
	date := dateutils.NormalizeDate(row.date())
	if date == "" {
		p.logger.Debug("Skipping row without date", logging.F(logging.FieldRow, line))
		return nil, false
	}

	rawAmount := row.amount()
	if rawAmount == "" {
		rawAmount = models.DefaultAmount
	}
	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		p.logger.Debug("Coerced unparseable amount to zero",
			logging.F(logging.FieldRow, line),
			logging.F(logging.FieldReason, err.Error()))
	}

	builder := models.NewTransactionBuilder().
		WithDate(date).
		WithText(row.text()).
		WithAmount(amount).
		WithCurrency(p.currency(row.currency()))

	if columns.balance {
		balance, err := currencyutils.ParseAmount(row.Saldo)
		if err != nil {
			p.logger.Debug("Coerced unparseable balance to zero",
				logging.F(logging.FieldRow, line),
				logging.F(logging.FieldReason, err.Error()))
		}
		builder.WithBalance(balance)
	}
	return builder, true
}

// currency keeps alphabetic three-letter codes. Anything else, such as the value
// date some banks put in a "Val" column, falls back to the default currency.
func (p *Pipeline) currency(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if isCurrencyCode(code) {
		return code
	}
	return p.defaultCurrency
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// SniffDelimiter picks ';' when the header line has more semicolons than commas.
func SniffDelimiter(text string) rune {
	header := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		header = text[:i]
	}
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

// headerCapturingReader remembers the header row gocsv consumes so the pipeline can
// tell a missing column from a blank cell.
type headerCapturingReader struct {
	*csv.Reader
	header []string
}

func (r *headerCapturingReader) ReadAll() ([][]string, error) {
	records, err := r.Reader.ReadAll()
	if len(records) > 0 {
		r.header = records[0]
	}
	return records, err
}

// Read is part of gocsv.CSVReader; UnmarshalCSV only calls ReadAll.
func (r *headerCapturingReader) Read() ([]string, error) {
	record, err := r.Reader.Read()
	if err == nil && r.header == nil {
		r.header = record
	}
	return record, err
}

var _ gocsv.CSVReader = (*headerCapturingReader)(nil)
