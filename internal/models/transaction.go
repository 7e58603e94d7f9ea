// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted arrays carry amounts as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction is a canonical, normalized statement line.
//
// Amount is positive for credits (income) and negative for debits (expenses).
// Balance is nil when the source file had no balance column. FileID is empty for
// legacy, ungrouped records.
type Transaction struct {
	ID       string           `json:"id" yaml:"id"`
	Date     string           `json:"date" yaml:"date"` // YYYY-MM-DD
	Text     string           `json:"text" yaml:"text"`
	Amount   decimal.Decimal  `json:"amount" yaml:"amount"`
	Currency string           `json:"currency" yaml:"currency"`
	Category string           `json:"category,omitempty" yaml:"category,omitempty"`
	Balance  *decimal.Decimal `json:"balance,omitempty" yaml:"balance,omitempty"`
	FileID   string           `json:"fileId,omitempty" yaml:"fileId,omitempty"`
}

// IsIncome reports whether the transaction credits the account.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction debits the account.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// HasBalance reports whether the source row carried a running balance.
func (t Transaction) HasBalance() bool {
	return t.Balance != nil
}

// Month returns the YYYY-MM key of the transaction date.
func (t Transaction) Month() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// Clone returns a deep copy; the balance pointer is not shared.
func (t Transaction) Clone() Transaction {
	c := t
	if t.Balance != nil {
		b := *t.Balance
		c.Balance = &b
	}
	return c
}

// CloneTransactions deep-copies a slice of transactions.
func CloneTransactions(txs []Transaction) []Transaction {
	if txs == nil {
		return nil
	}
	out := make([]Transaction, len(txs))
	for i, t := range txs {
		out[i] = t.Clone()
	}
	return out
}

// UploadedFile is the manifest entry of one import batch.
// Count always equals the number of live transactions whose FileID equals ID.
type UploadedFile struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Date  time.Time `json:"date" yaml:"date"`
	Count int       `json:"count" yaml:"count"`
}

// CloneFiles copies a slice of file manifest entries.
func CloneFiles(files []UploadedFile) []UploadedFile {
	if files == nil {
		return nil
	}
	out := make([]UploadedFile, len(files))
	copy(out, files)
	return out
}
