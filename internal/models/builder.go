package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing transactions.
// The first failing step is remembered and returned by Build.
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder creates a new TransactionBuilder with default values
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Text:     DefaultText,
			Currency: DefaultCurrency,
			Amount:   decimal.Zero,
		},
	}
}

// WithID sets the transaction ID
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(id) == "" {
		b.err = errors.New("id cannot be empty")
		return b
	}
	b.tx.ID = id
	return b
}

// WithDate sets the canonical YYYY-MM-DD date
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date == "" {
		b.err = errors.New("date cannot be empty")
		return b
	}
	b.tx.Date = date
	return b
}

// WithText sets the description; blank text keeps the default.
func (b *TransactionBuilder) WithText(text string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if text != "" {
		b.tx.Text = text
	}
	return b
}

// WithAmount sets the signed amount
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithCurrency sets the currency; blank keeps the default.
func (b *TransactionBuilder) WithCurrency(currency string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if currency != "" {
		b.tx.Currency = currency
	}
	return b
}

// WithBalance sets the running balance reported by the source row.
func (b *TransactionBuilder) WithBalance(balance decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Balance = &balance
	return b
}

// WithCategory sets the category label
func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Category = category
	return b
}

// WithFileID tags the transaction with its import batch.
func (b *TransactionBuilder) WithFileID(fileID string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.FileID = fileID
	return b
}

// Build returns the transaction or the first error recorded by a With* step.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, b.err
	}
	if b.tx.ID == "" {
		return Transaction{}, errors.New("transaction id is required")
	}
	if b.tx.Date == "" {
		return Transaction{}, errors.New("transaction date is required")
	}
	return b.tx.Clone(), nil
}
