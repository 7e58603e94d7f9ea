// Package ledger owns the in-memory transaction list and uploaded-file manifest.
// Every mutation is serialized, persisted through a store.LedgerRepository and only
// then published as a new immutable Snapshot.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fjacquet/budget-csv/internal/ingest"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"
	"fjacquet/budget-csv/internal/store"
)

// Snapshot is a point-in-time copy of the ledger. Callers may keep or modify it freely.
type Snapshot struct {
	Transactions []models.Transaction
	Files        []models.UploadedFile
}

// File returns the manifest entry with the given id.
func (s Snapshot) File(id string) (models.UploadedFile, bool) {
	for _, f := range s.Files {
		if f.ID == id {
			return f, true
		}
	}
	return models.UploadedFile{}, false
}

// Filter returns the transactions of month (YYYY-MM) and fileID. Empty arguments match all.
func (s Snapshot) Filter(month, fileID string) []models.Transaction {
	out := make([]models.Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		if month != "" && t.Month() != month {
			continue
		}
		if fileID != "" && t.FileID != fileID {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Transactions: models.CloneTransactions(s.Transactions),
		Files:        models.CloneFiles(s.Files),
	}
}

// Ledger serializes mutations of the transaction list and the file manifest.
type Ledger struct {
	mu          sync.Mutex
	state       Snapshot
	repo        store.LedgerRepository
	logger      logging.Logger
	subscribers map[chan Snapshot]struct{}
}

// New creates an empty ledger backed by repo. Call Load to read persisted state.
func New(repo store.LedgerRepository, logger logging.Logger) *Ledger {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Ledger{
		repo:        repo,
		logger:      logger,
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Load replaces the in-memory state with the persisted one.
func (l *Ledger) Load(ctx context.Context) error {
	state, err := l.repo.LoadLedger(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Snapshot{Transactions: state.Transactions, Files: state.Files}.clone()
	l.logger.Debug("Loaded ledger",
		logging.F(logging.FieldCount, len(l.state.Transactions)),
		logging.F(logging.FieldFiles, len(l.state.Files)))
	l.publish()
	return nil
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone()
}

// Ingest appends the transactions of one import and its manifest entry.
func (l *Ledger) Ingest(ctx context.Context, result ingest.Result) (Snapshot, error) {
	if err := validateResult(result); err != nil {
		return Snapshot{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.state.File(result.File.ID); exists {
		return Snapshot{}, &parsererror.ValidationError{
			FilePath: result.File.Name,
			Reason:   fmt.Sprintf("file id %s already imported", result.File.ID),
		}
	}

	overlaps := findOverlaps(l.state.Transactions, result.Transactions)
	for _, t := range overlaps {
		l.logger.Debug("Potential duplicate transaction",
			logging.F(logging.FieldTransactionID, t.ID),
			logging.F(logging.FieldDate, t.Date),
			logging.F(logging.FieldAmount, t.Amount.String()),
			logging.F(logging.FieldText, t.Text))
	}

	next := l.state.clone()
	next.Transactions = append(next.Transactions, models.CloneTransactions(result.Transactions)...)
	next.Files = append(next.Files, result.File)

	if err := l.commit(ctx, next, "ingest"); err != nil {
		return Snapshot{}, err
	}

	l.logger.Info("Imported statement",
		logging.F(logging.FieldFileID, result.File.ID),
		logging.F(logging.FieldLabel, result.File.Name),
		logging.F(logging.FieldCount, result.File.Count))
	if len(overlaps) > 0 {
		l.logger.Warn("Found potential duplicate transactions",
			logging.F(logging.FieldFileID, result.File.ID),
			logging.F(logging.FieldLabel, result.File.Name),
			logging.F(logging.FieldCount, len(overlaps)))
	}
	return l.state.clone(), nil
}

// UpdateCategory sets the category of one transaction.
func (l *Ledger) UpdateCategory(ctx context.Context, transactionID, category string) (Snapshot, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Snapshot{}, &parsererror.ValidationError{Reason: "category cannot be empty"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, t := range l.state.Transactions {
		if t.ID == transactionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Snapshot{}, fmt.Errorf("%w: %s", parsererror.ErrTransactionNotFound, transactionID)
	}

	next := l.state.clone()
	next.Transactions[idx].Category = category

	if err := l.commit(ctx, next, "update category"); err != nil {
		return Snapshot{}, err
	}

	l.logger.Info("Updated transaction category",
		logging.F(logging.FieldTransactionID, transactionID),
		logging.F(logging.FieldCategory, category))
	return l.state.clone(), nil
}

// RemoveFile drops a manifest entry together with exactly the transactions it imported.
func (l *Ledger) RemoveFile(ctx context.Context, fileID string) (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.state.File(fileID); !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", parsererror.ErrFileNotFound, fileID)
	}

	next := Snapshot{
		Transactions: make([]models.Transaction, 0, len(l.state.Transactions)),
		Files:        make([]models.UploadedFile, 0, len(l.state.Files)),
	}
	removed := 0
	for _, t := range l.state.Transactions {
		if t.FileID == fileID {
			removed++
			continue
		}
		next.Transactions = append(next.Transactions, t.Clone())
	}
	for _, f := range l.state.Files {
		if f.ID != fileID {
			next.Files = append(next.Files, f)
		}
	}

	if err := l.commit(ctx, next, "remove file"); err != nil {
		return Snapshot{}, err
	}

	l.logger.Info("Removed uploaded file",
		logging.F(logging.FieldFileID, fileID),
		logging.F(logging.FieldCount, removed))
	return l.state.clone(), nil
}

// Subscribe returns a channel that receives a snapshot after every successful
// mutation. The channel holds one pending snapshot; a newer one replaces it, so a slow
// reader only ever sees the latest state. Call the returned function to unsubscribe.
func (l *Ledger) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subscribers, ch)
			close(ch)
		})
	}
	return ch, cancel
}

// commit persists next and swaps it in. Must be called with l.mu held.
func (l *Ledger) commit(ctx context.Context, next Snapshot, operation string) error {
	err := l.repo.SaveLedger(ctx, store.LedgerState{
		Transactions: next.Transactions,
		Files:        next.Files,
	})
	if err != nil {
		l.logger.WithError(err).Error("Failed to persist ledger",
			logging.F(logging.FieldOperation, operation))
		var perr *parsererror.PersistenceError
		if errors.As(err, &perr) {
			return err
		}
		return &parsererror.PersistenceError{Operation: operation, Err: err}
	}
	l.state = next
	l.publish()
	return nil
}

// publish must be called with l.mu held.
func (l *Ledger) publish() {
	for ch := range l.subscribers {
		snap := l.state.clone()
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func validateResult(result ingest.Result) error {
	if result.File.ID == "" {
		return &parsererror.ValidationError{FilePath: result.File.Name, Reason: "uploaded file has no id"}
	}
	if result.File.Count != len(result.Transactions) {
		return &parsererror.ValidationError{
			FilePath: result.File.Name,
			Reason: fmt.Sprintf("file count %d does not match %d transactions",
				result.File.Count, len(result.Transactions)),
		}
	}
	for _, t := range result.Transactions {
		if t.FileID != result.File.ID {
			return &parsererror.ValidationError{
				FilePath: result.File.Name,
				Reason:   fmt.Sprintf("transaction %s belongs to file %q", t.ID, t.FileID),
			}
		}
	}
	return nil
}
