package common_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-csv/cmd/common"
	"fjacquet/budget-csv/internal/config"
	"fjacquet/budget-csv/internal/container"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const october = "Dato;Tekst;Val;= Indsat / = Hævet;Saldo\n" +
	"01.10.2025;Løn;01.10;\"15000,00\";\"25000,00\"\n" +
	"02.10.2025;Husleje;02.10;\"6500,00-\";\"18174,25\"\n"

const november = "Date,Text,Amount\n" +
	"2025-11-03,Netto,-391.50\n"

func newTestContainer(t *testing.T) (*container.Container, *logging.MockLogger) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = "auto"
	cfg.CSV.DefaultCurrency = "DKK"
	cfg.Data.Backend = "file"
	cfg.Data.Path = filepath.Join(t.TempDir(), "ledger.json")
	cfg.Export.Delimiter = ","

	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, logger
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportFile(t *testing.T) {
	c, _ := newTestContainer(t)
	path := writeFile(t, t.TempDir(), "october.csv", october)

	result, err := common.ImportFile(context.Background(), c, path, "")
	require.NoError(t, err)
	assert.Equal(t, "october.csv", result.File.Name)
	assert.Equal(t, 2, result.File.Count)

	snap := c.GetLedger().Snapshot()
	require.Len(t, snap.Transactions, 2)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, models.CategoryIncome, snap.Transactions[0].Category)
	assert.Equal(t, models.CategoryHousing, snap.Transactions[1].Category)
}

func TestImportFile_Label(t *testing.T) {
	c, _ := newTestContainer(t)
	path := writeFile(t, t.TempDir(), "export-2025.csv", october)

	result, err := common.ImportFile(context.Background(), c, path, "Oktober")
	require.NoError(t, err)
	assert.Equal(t, "Oktober", result.File.Name)
}

func TestImportFile_Errors(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := common.ImportFile(context.Background(), c, filepath.Join(t.TempDir(), "missing.csv"), "")
	assert.Error(t, err)

	_, err = common.ImportFile(context.Background(), c, "", "")
	assert.Error(t, err)

	assert.Empty(t, c.GetLedger().Snapshot().Files)
}

func TestImportFile_UsesRules(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()
	_, err := c.GetRuleStore().AddRule(ctx, "netto", "Groceries")
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), "november.csv", november)
	result, err := common.ImportFile(ctx, c, path, "")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Groceries", result.Transactions[0].Category)
}

func TestImportDirectory(t *testing.T) {
	c, logger := newTestContainer(t)
	dir := t.TempDir()
	writeFile(t, dir, "a-october.csv", october)
	writeFile(t, dir, "b-november.csv", november)
	writeFile(t, dir, "notes.txt", "not a statement")

	results, err := common.ImportDirectory(context.Background(), c, dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a-october.csv", results[0].File.Name)
	assert.Equal(t, "b-november.csv", results[1].File.Name)

	snap := c.GetLedger().Snapshot()
	assert.Len(t, snap.Transactions, 3)
	assert.Len(t, snap.Files, 2)
	assert.True(t, logger.HasEntry("INFO", "Directory import finished"))
}

func TestImportDirectory_MissingDirectory(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := common.ImportDirectory(context.Background(), c, filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSetCategory(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()
	result, err := common.ImportFile(ctx, c, writeFile(t, t.TempDir(), "november.csv", november), "")
	require.NoError(t, err)
	txID := result.Transactions[0].ID

	tests := []struct {
		name      string
		txID      string
		category  string
		learn     string
		wantErr   error
		wantRules int
	}{
		{name: "category only", txID: txID, category: "Food", wantRules: 0},
		{name: "with learned rule", txID: txID, category: "Groceries", learn: "Netto", wantRules: 1},
		{name: "unknown transaction", txID: "missing", category: "Food", wantErr: parsererror.ErrTransactionNotFound, wantRules: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := common.SetCategory(ctx, c, tt.txID, tt.category, tt.learn)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.category, snap.Transactions[0].Category)
			}
			assert.Len(t, c.GetRuleStore().Rules(), tt.wantRules)
		})
	}
}
