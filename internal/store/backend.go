// Package store persists the ledger (transactions and uploaded-file manifest) and the
// user category rules. Backends are interchangeable behind the Backend interface.
package store

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
)

// Backend kinds accepted by NewBackend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// LedgerState is the persisted part of the ledger. Transactions and Files are saved
// together so a file and its transactions never diverge on disk.
type LedgerState struct {
	Transactions []models.Transaction
	Files        []models.UploadedFile
}

// Clone deep-copies the state.
func (s LedgerState) Clone() LedgerState {
	return LedgerState{
		Transactions: models.CloneTransactions(s.Transactions),
		Files:        models.CloneFiles(s.Files),
	}
}

// LedgerRepository loads and atomically replaces the ledger state.
type LedgerRepository interface {
	LoadLedger(ctx context.Context) (LedgerState, error)
	SaveLedger(ctx context.Context, state LedgerState) error
}

// RuleRepository loads and replaces the full ordered rule set.
type RuleRepository interface {
	LoadRules(ctx context.Context) ([]models.CategoryRule, error)
	SaveRules(ctx context.Context, rules []models.CategoryRule) error
}

// Backend is a complete storage implementation.
type Backend interface {
	LedgerRepository
	RuleRepository
	Name() string
	Close() error
}

// NewBackend opens the backend of the given kind at path.
func NewBackend(kind, path string, logger logging.Logger) (Backend, error) {
	switch strings.ToLower(kind) {
	case BackendFile, "":
		return NewFileBackend(path, logger), nil
	case BackendSQLite:
		return NewSQLBackend(path, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", kind)
	}
}
