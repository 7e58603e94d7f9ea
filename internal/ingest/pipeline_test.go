package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/budget-csv/internal/categorizer"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const danskeSample = "Dato;Tekst;Val;= Indsat / = Hævet;Saldo\n" +
	"01.10.2025;Løn;01.10;\"15000,00\";\"25000,00\"\n" +
	"02.10.2025;Husleje;02.10;\"6500,00-\";\"18174,25\"\n"

var fixedNow = time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC)

func newTestPipeline(t *testing.T, delimiter rune) (*Pipeline, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	p := NewPipeline(logger, delimiter, "")
	n := 0
	p.idGen = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	p.clock = func() time.Time { return fixedNow }
	return p, logger
}

func TestIngest_DanskeBankSample(t *testing.T) {
	p, _ := newTestPipeline(t, 0)

	result, err := p.Ingest(danskeSample, "october.csv", categorizer.NewKeywordClassifier())
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	salary, rent := result.Transactions[0], result.Transactions[1]

	assert.Equal(t, "2025-10-01", salary.Date)
	assert.Equal(t, "Løn", salary.Text)
	assert.True(t, salary.Amount.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, models.CategoryIncome, salary.Category)
	require.NotNil(t, salary.Balance)
	assert.True(t, salary.Balance.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, "DKK", salary.Currency)

	assert.Equal(t, "2025-10-02", rent.Date)
	assert.Equal(t, "Husleje", rent.Text)
	assert.True(t, rent.Amount.Equal(decimal.NewFromInt(-6500)))
	assert.Equal(t, models.CategoryHousing, rent.Category)
	require.NotNil(t, rent.Balance)
	assert.True(t, rent.Balance.Equal(decimal.RequireFromString("18174.25")))

	assert.Equal(t, models.UploadedFile{ID: "id-1", Name: "october.csv", Date: fixedNow, Count: 2}, result.File)
	for _, tx := range result.Transactions {
		assert.Equal(t, "id-1", tx.FileID)
	}
	assert.Equal(t, "id-2", salary.ID)
	assert.Equal(t, "id-3", rent.ID)
}

func TestIngest_EnglishHeadersWithCommas(t *testing.T) {
	p, _ := newTestPipeline(t, 0)
	input := "Date,Text,Currency,Amount\n" +
		"2025-09-30,Netflix,EUR,-15.99\n" +
		"2025-09-29,Refund,usd,20\n"

	result, err := p.Ingest(input, "export.csv", nil)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	assert.Equal(t, "EUR", result.Transactions[0].Currency)
	assert.Equal(t, models.CategorySubscriptions, result.Transactions[0].Category)
	assert.Nil(t, result.Transactions[0].Balance)
	assert.Equal(t, "USD", result.Transactions[1].Currency)
	assert.Equal(t, models.CategoryIncome, result.Transactions[1].Category)
}

func TestIngest_AliasResolution(t *testing.T) {
	p, _ := newTestPipeline(t, ';')
	input := "Date;Dato;Text;Tekst;Valuta;Beløb;Amount\n" +
		";05.10.2025;;Netto;SEK;\"1.234,50-\";\n" +
		"2025-10-06;06.10.2025;Rema;Ignored;;;-10\n"

	result, err := p.Ingest(input, "aliases.csv", categorizer.NewKeywordClassifier())
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	first := result.Transactions[0]
	assert.Equal(t, "2025-10-05", first.Date)
	assert.Equal(t, "Netto", first.Text)
	assert.Equal(t, "SEK", first.Currency)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-1234.50")))

	second := result.Transactions[1]
	assert.Equal(t, "2025-10-06", second.Date)
	assert.Equal(t, "Rema", second.Text)
	assert.Equal(t, "DKK", second.Currency)
	assert.True(t, second.Amount.Equal(decimal.NewFromInt(-10)))
}

func TestIngest_Defaults(t *testing.T) {
	p, _ := newTestPipeline(t, 0)
	input := "Dato;Tekst;Beløb;Saldo\n" +
		"01.10.2025;;;\n" +
		"02.10.2025;Kiosk;abc;xyz\n"

	result, err := p.Ingest(input, "defaults.csv", categorizer.NewKeywordClassifier())
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	blank := result.Transactions[0]
	assert.Equal(t, models.DefaultText, blank.Text)
	assert.True(t, blank.Amount.IsZero())
	require.NotNil(t, blank.Balance)
	assert.True(t, blank.Balance.IsZero())
	assert.Equal(t, models.CategoryOther, blank.Category)

	garbage := result.Transactions[1]
	assert.True(t, garbage.Amount.IsZero())
	require.NotNil(t, garbage.Balance)
	assert.True(t, garbage.Balance.IsZero())
}

func TestIngest_SkipsRowsWithoutDate(t *testing.T) {
	p, logger := newTestPipeline(t, 0)
	input := "Dato;Tekst;Beløb\n" +
		";Netto;-10,00\n" +
		"03.10.2025;Rema;-20,00\n" +
		"\n" +
		";;\n"

	result, err := p.Ingest(input, "gaps.csv", nil)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Rema", result.Transactions[0].Text)
	assert.Equal(t, 1, result.File.Count)
	assert.Len(t, logger.GetEntriesByLevel("DEBUG"), 2)
}

func TestIngest_NoDateColumn(t *testing.T) {
	p, logger := newTestPipeline(t, 0)

	result, err := p.Ingest("Foo;Bar\n1;2\n", "weird.csv", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.Equal(t, 0, result.File.Count)
	assert.NotEmpty(t, logger.GetEntriesByLevel("WARN"))
}

func TestIngest_HeaderOnly(t *testing.T) {
	p, _ := newTestPipeline(t, 0)

	result, err := p.Ingest("Dato;Tekst;Beløb\n", "empty.csv", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.Equal(t, "empty.csv", result.File.Name)
}

func TestIngest_EmptyInputFails(t *testing.T) {
	p, _ := newTestPipeline(t, 0)

	for _, input := range []string{"", "   \n\n", "\ufeff"} {
		result, err := p.Ingest(input, "empty.csv", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, parsererror.ErrParseFailure)
		var parseErr *parsererror.ParseError
		assert.ErrorAs(t, err, &parseErr)
		assert.Empty(t, result.Transactions)
		assert.Empty(t, result.File.ID)
	}
}

func TestIngest_StripsByteOrderMark(t *testing.T) {
	p, _ := newTestPipeline(t, 0)

	result, err := p.Ingest("\ufeff"+danskeSample, "bom.csv", nil)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "2025-10-01", result.Transactions[0].Date)
}

func TestIngest_UsesClassifier(t *testing.T) {
	p, _ := newTestPipeline(t, 0)
	var seen []string
	classifier := categorizer.ClassifierFunc(func(text string, amount decimal.Decimal) string {
		seen = append(seen, text+"|"+amount.String())
		return "Custom"
	})

	result, err := p.Ingest(danskeSample, "october.csv", classifier)
	require.NoError(t, err)
	assert.Equal(t, []string{"Løn|15000", "Husleje|-6500"}, seen)
	for _, tx := range result.Transactions {
		assert.Equal(t, "Custom", tx.Category)
	}
}

func TestIngest_ConfiguredDefaultCurrency(t *testing.T) {
	p := NewPipeline(logging.NewMockLogger(), 0, "eur")

	result, err := p.Ingest(danskeSample, "october.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, "EUR", result.Transactions[0].Currency)

	invalid := NewPipeline(logging.NewMockLogger(), 0, "euro")
	assert.Equal(t, models.DefaultCurrency, invalid.defaultCurrency)
}

func TestIngest_RealIdentifiersAreUnique(t *testing.T) {
	p := NewPipeline(logging.NewMockLogger(), 0, "")

	result, err := p.Ingest(danskeSample, "october.csv", nil)
	require.NoError(t, err)
	ids := map[string]bool{result.File.ID: true}
	for _, tx := range result.Transactions {
		assert.False(t, ids[tx.ID], "duplicate id %s", tx.ID)
		ids[tx.ID] = true
	}
}

func TestIngestFile(t *testing.T) {
	p, _ := newTestPipeline(t, 0)
	dir := t.TempDir()
	path := filepath.Join(dir, "danske.csv")
	latin1 := "Dato;Tekst;Bel\xf8b\n01.10.2025;L\xf8n;15000,00\n"
	require.NoError(t, os.WriteFile(path, []byte(latin1), 0600))

	result, err := p.IngestFile(path, "", nil)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Løn", result.Transactions[0].Text)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, "danske.csv", result.File.Name)

	_, err = p.IngestFile(filepath.Join(dir, "missing.csv"), "x", nil)
	assert.Error(t, err)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', SniffDelimiter("Dato;Tekst;Beløb\n1,2,3,4,5"))
	assert.Equal(t, ',', SniffDelimiter("Date,Text,Amount\r\n"))
	assert.Equal(t, ',', SniffDelimiter("Single"))
}
