package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionBuilder(t *testing.T) {
	builder := NewTransactionBuilder()

	assert.NotNil(t, builder)
	assert.Nil(t, builder.err)
	assert.Equal(t, DefaultCurrency, builder.tx.Currency)
	assert.Equal(t, DefaultText, builder.tx.Text)
	assert.True(t, builder.tx.Amount.IsZero())
	assert.Nil(t, builder.tx.Balance)
}

func TestTransactionBuilder_Build(t *testing.T) {
	tx, err := NewTransactionBuilder().
		WithID("tx-1").
		WithDate("2025-10-02").
		WithText("Husleje").
		WithAmount(decimal.RequireFromString("-6500")).
		WithBalance(decimal.RequireFromString("18174.25")).
		WithCategory(CategoryHousing).
		WithFileID("file-1").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "2025-10-02", tx.Date)
	assert.Equal(t, "Husleje", tx.Text)
	assert.Equal(t, DefaultCurrency, tx.Currency)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-6500)))
	require.NotNil(t, tx.Balance)
	assert.Equal(t, "18174.25", tx.Balance.String())
	assert.Equal(t, CategoryHousing, tx.Category)
	assert.Equal(t, "file-1", tx.FileID)
}

func TestTransactionBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder *TransactionBuilder
		wantErr string
	}{
		{
			name:    "empty date",
			builder: NewTransactionBuilder().WithID("a").WithDate(""),
			wantErr: "date cannot be empty",
		},
		{
			name:    "blank id",
			builder: NewTransactionBuilder().WithID("  ").WithDate("2025-01-01"),
			wantErr: "id cannot be empty",
		},
		{
			name:    "missing id",
			builder: NewTransactionBuilder().WithDate("2025-01-01"),
			wantErr: "transaction id is required",
		},
		{
			name:    "first error wins",
			builder: NewTransactionBuilder().WithDate("").WithID(""),
			wantErr: "date cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestTransactionBuilder_BlankTextAndCurrencyKeepDefaults(t *testing.T) {
	tx, err := NewTransactionBuilder().
		WithID("x").
		WithDate("2025-01-01").
		WithText("").
		WithCurrency("").
		Build()

	require.NoError(t, err)
	assert.Equal(t, DefaultText, tx.Text)
	assert.Equal(t, DefaultCurrency, tx.Currency)
}
