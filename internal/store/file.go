package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// document is the on-disk layout of the file backend.
type document struct {
	Transactions []models.Transaction  `json:"transactions" yaml:"transactions"`
	Files        []models.UploadedFile `json:"files" yaml:"files"`
	Rules        []models.CategoryRule `json:"rules" yaml:"rules"`
}

// FileBackend keeps all state in a single JSON or YAML document, chosen by the
// file extension. Every save rewrites the document through a temp file and rename.
type FileBackend struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
}

// NewFileBackend creates a backend for the document at path. The file is created on
// first save.
func NewFileBackend(path string, logger logging.Logger) *FileBackend {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &FileBackend{path: path, logger: logger}
}

// Name identifies the backend in logs.
func (b *FileBackend) Name() string { return BackendFile }

// Path returns the document location.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(b.path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadLedger reads transactions and files. A missing document yields an empty ledger.
func (b *FileBackend) LoadLedger(ctx context.Context) (LedgerState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return LedgerState{}, &parsererror.PersistenceError{Operation: "load ledger", Err: err}
	}
	return LedgerState{Transactions: doc.Transactions, Files: doc.Files}, nil
}

// SaveLedger replaces transactions and files, keeping the stored rules.
func (b *FileBackend) SaveLedger(ctx context.Context, state LedgerState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return &parsererror.PersistenceError{Operation: "save ledger", Err: err}
	}
	doc.Transactions = state.Transactions
	doc.Files = state.Files
	if err := b.write(doc); err != nil {
		return &parsererror.PersistenceError{Operation: "save ledger", Err: err}
	}

	b.logger.Debug("Saved ledger",
		logging.F(logging.FieldBackend, b.Name()),
		logging.F(logging.FieldFile, b.path),
		logging.F(logging.FieldCount, len(state.Transactions)))
	return nil
}

// LoadRules reads the ordered rule set.
func (b *FileBackend) LoadRules(ctx context.Context) ([]models.CategoryRule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return nil, &parsererror.PersistenceError{Operation: "load rules", Err: err}
	}
	return doc.Rules, nil
}

// SaveRules replaces the rule set, keeping the stored ledger.
func (b *FileBackend) SaveRules(ctx context.Context, rules []models.CategoryRule) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return &parsererror.PersistenceError{Operation: "save rules", Err: err}
	}
	doc.Rules = rules
	if err := b.write(doc); err != nil {
		return &parsererror.PersistenceError{Operation: "save rules", Err: err}
	}

	b.logger.Debug("Saved category rules",
		logging.F(logging.FieldBackend, b.Name()),
		logging.F(logging.FieldCount, len(rules)))
	return nil
}

// Close is a no-op; the document is closed after every access.
func (b *FileBackend) Close() error { return nil }

func (b *FileBackend) read() (document, error) {
	var doc document

	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("error reading data file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}

	if b.isYAML() {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return doc, fmt.Errorf("error parsing data file %s: %w", b.path, err)
	}
	return doc, nil
}

func (b *FileBackend) write(doc document) error {
	if doc.Transactions == nil {
		doc.Transactions = []models.Transaction{}
	}
	if doc.Files == nil {
		doc.Files = []models.UploadedFile{}
	}
	if doc.Rules == nil {
		doc.Rules = []models.CategoryRule{}
	}

	var (
		data []byte
		err  error
	)
	if b.isYAML() {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error marshaling data file: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error writing data file: %w", err)
	}
	if err := tmp.Chmod(models.PermissionDataFile); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing data file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("error replacing data file: %w", err)
	}
	return nil
}
