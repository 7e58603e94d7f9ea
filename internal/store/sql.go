package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const insertBatchSize = 200

// transactionRow is the SQL representation of models.Transaction. Amounts are kept
// as decimal strings so no precision is lost.
type transactionRow struct {
	ID       string  `gorm:"primaryKey;size:64"`
	Position int     `gorm:"index;not null"`
	Date     string  `gorm:"size:32;index"`
	Text     string  `gorm:"size:512"`
	Amount   string  `gorm:"size:64;not null"`
	Currency string  `gorm:"size:8"`
	Category string  `gorm:"size:64;index"`
	Balance  *string `gorm:"size:64"`
	FileID   string  `gorm:"size:64;index"`
}

func (transactionRow) TableName() string { return "transactions" }

type uploadedFileRow struct {
	ID         string    `gorm:"primaryKey;size:64"`
	Position   int       `gorm:"index;not null"`
	Name       string    `gorm:"size:255"`
	ImportedAt time.Time `gorm:"not null"`
	Count      int       `gorm:"not null"`
}

func (uploadedFileRow) TableName() string { return "uploaded_files" }

type categoryRuleRow struct {
	ID          string `gorm:"primaryKey;size:64"`
	Position    int    `gorm:"index;not null"`
	TextPattern string `gorm:"size:255;uniqueIndex"`
	Category    string `gorm:"size:64;not null"`
}

func (categoryRuleRow) TableName() string { return "category_rules" }

func toTransactionRow(t models.Transaction, position int) transactionRow {
	row := transactionRow{
		ID:       t.ID,
		Position: position,
		Date:     t.Date,
		Text:     t.Text,
		Amount:   t.Amount.String(),
		Currency: t.Currency,
		Category: t.Category,
		FileID:   t.FileID,
	}
	if t.Balance != nil {
		b := t.Balance.String()
		row.Balance = &b
	}
	return row
}

func (r transactionRow) toModel() (models.Transaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount for transaction %s: %w", r.ID, err)
	}
	t := models.Transaction{
		ID:       r.ID,
		Date:     r.Date,
		Text:     r.Text,
		Amount:   amount,
		Currency: r.Currency,
		Category: r.Category,
		FileID:   r.FileID,
	}
	if r.Balance != nil {
		balance, err := decimal.NewFromString(*r.Balance)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("invalid balance for transaction %s: %w", r.ID, err)
		}
		t.Balance = &balance
	}
	return t, nil
}

// SQLBackend stores the ledger and rules in three SQLite tables through GORM.
type SQLBackend struct {
	db     *gorm.DB
	path   string
	logger logging.Logger
}

// NewSQLBackend opens (creating if needed) the SQLite database at path and migrates
// the schema.
func NewSQLBackend(path string, logger logging.Logger) (*SQLBackend, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// a single connection serializes writers and keeps :memory: databases shared
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")

	if err := db.AutoMigrate(&transactionRow{}, &uploadedFileRow{}, &categoryRuleRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	logger.Debug("Opened SQLite backend",
		logging.F(logging.FieldBackend, BackendSQLite),
		logging.F(logging.FieldFile, path))

	return &SQLBackend{db: db, path: path, logger: logger}, nil
}

// Name identifies the backend in logs.
func (b *SQLBackend) Name() string { return BackendSQLite }

// LoadLedger reads transactions and files in their stored order.
func (b *SQLBackend) LoadLedger(ctx context.Context) (LedgerState, error) {
	var txRows []transactionRow
	if err := b.db.WithContext(ctx).Order("position").Find(&txRows).Error; err != nil {
		return LedgerState{}, &parsererror.PersistenceError{Operation: "load transactions", Err: err}
	}
	var fileRows []uploadedFileRow
	if err := b.db.WithContext(ctx).Order("position").Find(&fileRows).Error; err != nil {
		return LedgerState{}, &parsererror.PersistenceError{Operation: "load files", Err: err}
	}

	state := LedgerState{
		Transactions: make([]models.Transaction, 0, len(txRows)),
		Files:        make([]models.UploadedFile, 0, len(fileRows)),
	}
	for _, row := range txRows {
		t, err := row.toModel()
		if err != nil {
			return LedgerState{}, &parsererror.PersistenceError{Operation: "load transactions", Err: err}
		}
		state.Transactions = append(state.Transactions, t)
	}
	for _, row := range fileRows {
		state.Files = append(state.Files, models.UploadedFile{
			ID:    row.ID,
			Name:  row.Name,
			Date:  row.ImportedAt,
			Count: row.Count,
		})
	}
	return state, nil
}

// SaveLedger replaces both tables inside one database transaction.
func (b *SQLBackend) SaveLedger(ctx context.Context, state LedgerState) error {
	txRows := make([]transactionRow, len(state.Transactions))
	for i, t := range state.Transactions {
		txRows[i] = toTransactionRow(t, i)
	}
	fileRows := make([]uploadedFileRow, len(state.Files))
	for i, f := range state.Files {
		fileRows[i] = uploadedFileRow{ID: f.ID, Position: i, Name: f.Name, ImportedAt: f.Date, Count: f.Count}
	}

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&transactionRow{}).Error; err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}
		if err := all.Delete(&uploadedFileRow{}).Error; err != nil {
			return fmt.Errorf("clear files: %w", err)
		}
		if len(txRows) > 0 {
			if err := tx.CreateInBatches(txRows, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert transactions: %w", err)
			}
		}
		if len(fileRows) > 0 {
			if err := tx.CreateInBatches(fileRows, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert files: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return &parsererror.PersistenceError{Operation: "save ledger", Err: err}
	}

	b.logger.Debug("Saved ledger",
		logging.F(logging.FieldBackend, b.Name()),
		logging.F(logging.FieldCount, len(txRows)))
	return nil
}

// LoadRules reads rules in storage order.
func (b *SQLBackend) LoadRules(ctx context.Context) ([]models.CategoryRule, error) {
	var rows []categoryRuleRow
	if err := b.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, &parsererror.PersistenceError{Operation: "load rules", Err: err}
	}
	rules := make([]models.CategoryRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, models.CategoryRule{ID: row.ID, TextPattern: row.TextPattern, Category: row.Category})
	}
	return rules, nil
}

// SaveRules replaces the rule table.
func (b *SQLBackend) SaveRules(ctx context.Context, rules []models.CategoryRule) error {
	rows := make([]categoryRuleRow, len(rules))
	for i, r := range rules {
		rows[i] = categoryRuleRow{ID: r.ID, Position: i, TextPattern: r.TextPattern, Category: r.Category}
	}

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&categoryRuleRow{}).Error; err != nil {
			return fmt.Errorf("clear rules: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
	if err != nil {
		return &parsererror.PersistenceError{Operation: "save rules", Err: err}
	}
	return nil
}

// Close releases the database handle.
func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
