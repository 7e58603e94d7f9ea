package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"fjacquet/budget-csv/internal/analytics"
	"fjacquet/budget-csv/internal/categorizer"
	"fjacquet/budget-csv/internal/ingest"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"
	"fjacquet/budget-csv/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const danskeSample = "Dato;Tekst;Val;= Indsat / = Hævet;Saldo\n" +
	"01.10.2025;Løn;01.10;\"15000,00\";\"25000,00\"\n" +
	"02.10.2025;Husleje;02.10;\"6500,00-\";\"18174,25\"\n"

const novemberSample = "Date,Text,Amount\n" +
	"2025-11-03,Netto,-250.50\n" +
	"2025-11-04,Spotify,-99.00\n" +
	"2025-11-05,DSB,-42.00\n"

func newTestLedger(t *testing.T) (*Ledger, *store.MockBackend, *logging.MockLogger) {
	t.Helper()
	backend := store.NewMockBackend()
	logger := logging.NewMockLogger()
	return New(backend, logger), backend, logger
}

func makeResult(fileID, name string, amounts ...int64) ingest.Result {
	txs := make([]models.Transaction, 0, len(amounts))
	for i, a := range amounts {
		txs = append(txs, models.Transaction{
			ID:       fmt.Sprintf("%s-tx-%d", fileID, i),
			Date:     fmt.Sprintf("2025-10-%02d", i+1),
			Text:     "Row",
			Amount:   decimal.NewFromInt(a),
			Currency: models.DefaultCurrency,
			Category: models.CategoryOther,
			FileID:   fileID,
		})
	}
	return ingest.Result{
		Transactions: txs,
		File: models.UploadedFile{
			ID:    fileID,
			Name:  name,
			Date:  time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC),
			Count: len(txs),
		},
	}
}

func TestLedger_EndToEndSample(t *testing.T) {
	l, backend, _ := newTestLedger(t)
	pipeline := ingest.NewPipeline(logging.NewMockLogger(), 0, "")

	result, err := pipeline.Ingest(danskeSample, "october.csv", categorizer.NewKeywordClassifier())
	require.NoError(t, err)

	snap, err := l.Ingest(context.Background(), result)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 2)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, 2, snap.Files[0].Count)

	stats := analytics.MonthlyStats(snap.Transactions)
	require.Len(t, stats, 1)
	assert.Equal(t, "2025-10", stats[0].Month)
	assert.True(t, stats[0].Income.Equal(decimal.NewFromInt(15000)))
	assert.True(t, stats[0].Expenses.Equal(decimal.NewFromInt(6500)))

	insights := analytics.ComputeInsights(snap.Transactions)
	assert.True(t, insights.CurrentBalance.Equal(decimal.RequireFromString("18174.25")))

	assert.Equal(t, 1, backend.SaveLedgerCalls)
	assert.Len(t, backend.State.Transactions, 2)
}

func TestLedger_IngestAppendsInImportOrder(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Ingest(ctx, makeResult("a", "a.csv", -10, 20))
	require.NoError(t, err)
	snap, err := l.Ingest(ctx, makeResult("b", "b.csv", -30))
	require.NoError(t, err)

	require.Len(t, snap.Transactions, 3)
	assert.Equal(t, "a-tx-0", snap.Transactions[0].ID)
	assert.Equal(t, "b-tx-0", snap.Transactions[2].ID)
	require.Len(t, snap.Files, 2)
	assert.Equal(t, "a", snap.Files[0].ID)
	assert.Equal(t, "b", snap.Files[1].ID)
}

func TestLedger_IngestRejectsInconsistentResults(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ingest.Result)
	}{
		{"missing file id", func(r *ingest.Result) { r.File.ID = "" }},
		{"count mismatch", func(r *ingest.Result) { r.File.Count = 5 }},
		{"foreign transaction", func(r *ingest.Result) { r.Transactions[0].FileID = "other" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, backend, _ := newTestLedger(t)
			result := makeResult("f1", "f1.csv", -10, 20)
			tt.mutate(&result)

			_, err := l.Ingest(context.Background(), result)
			require.Error(t, err)
			var verr *parsererror.ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.Equal(t, 0, backend.SaveLedgerCalls)
			assert.Empty(t, l.Snapshot().Transactions)
		})
	}
}

func TestLedger_IngestDuplicateFileID(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Ingest(ctx, makeResult("f1", "f1.csv", -10))
	require.NoError(t, err)
	_, err = l.Ingest(ctx, makeResult("f1", "again.csv", -10))
	require.Error(t, err)
	assert.Len(t, l.Snapshot().Transactions, 1)
}

func TestLedger_RemoveFile(t *testing.T) {
	l, backend, _ := newTestLedger(t)
	ctx := context.Background()
	pipeline := ingest.NewPipeline(logging.NewMockLogger(), 0, "")
	classifier := categorizer.NewKeywordClassifier()

	october, err := pipeline.Ingest(danskeSample, "october.csv", classifier)
	require.NoError(t, err)
	november, err := pipeline.Ingest(novemberSample, "november.csv", classifier)
	require.NoError(t, err)

	_, err = l.Ingest(ctx, october)
	require.NoError(t, err)
	_, err = l.Ingest(ctx, november)
	require.NoError(t, err)

	snap, err := l.RemoveFile(ctx, october.File.ID)
	require.NoError(t, err)

	require.Len(t, snap.Files, 1)
	assert.Equal(t, november.File.ID, snap.Files[0].ID)
	require.Len(t, snap.Transactions, 3)
	for _, tx := range snap.Transactions {
		assert.Equal(t, november.File.ID, tx.FileID)
	}
	for _, f := range snap.Files {
		assert.Len(t, snap.Filter("", f.ID), f.Count)
	}
	assert.Len(t, backend.State.Transactions, 3)
}

func TestLedger_RemoveFileKeepsLegacyTransactions(t *testing.T) {
	l, backend, _ := newTestLedger(t)
	backend.State = store.LedgerState{
		Transactions: []models.Transaction{
			{ID: "legacy", Date: "2025-09-01", Text: "Old", Amount: decimal.NewFromInt(-5)},
		},
	}
	ctx := context.Background()
	require.NoError(t, l.Load(ctx))

	_, err := l.Ingest(ctx, makeResult("f1", "f1.csv", -10))
	require.NoError(t, err)
	snap, err := l.RemoveFile(ctx, "f1")
	require.NoError(t, err)

	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "legacy", snap.Transactions[0].ID)
	assert.Empty(t, snap.Files)
}

func TestLedger_RemoveUnknownFile(t *testing.T) {
	l, backend, _ := newTestLedger(t)

	_, err := l.RemoveFile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrFileNotFound))
	assert.Equal(t, 0, backend.SaveLedgerCalls)
}

func TestLedger_UpdateCategory(t *testing.T) {
	l, backend, _ := newTestLedger(t)
	ctx := context.Background()
	_, err := l.Ingest(ctx, makeResult("f1", "f1.csv", -10, -20))
	require.NoError(t, err)

	snap, err := l.UpdateCategory(ctx, "f1-tx-1", models.CategoryLeisure)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, snap.Transactions[0].Category)
	assert.Equal(t, models.CategoryLeisure, snap.Transactions[1].Category)
	assert.Equal(t, models.CategoryLeisure, backend.State.Transactions[1].Category)

	_, err = l.UpdateCategory(ctx, "nope", models.CategoryLeisure)
	assert.True(t, errors.Is(err, parsererror.ErrTransactionNotFound))

	_, err = l.UpdateCategory(ctx, "f1-tx-0", "  ")
	var verr *parsererror.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestLedger_PersistenceFailureKeepsState(t *testing.T) {
	l, backend, logger := newTestLedger(t)
	ctx := context.Background()
	_, err := l.Ingest(ctx, makeResult("f1", "f1.csv", -10))
	require.NoError(t, err)

	backend.SaveLedgerError = errors.New("disk full")

	_, err = l.Ingest(ctx, makeResult("f2", "f2.csv", -20))
	require.Error(t, err)
	var perr *parsererror.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "ingest", perr.Operation)

	_, err = l.UpdateCategory(ctx, "f1-tx-0", models.CategoryHealth)
	require.Error(t, err)
	_, err = l.RemoveFile(ctx, "f1")
	require.Error(t, err)

	snap := l.Snapshot()
	require.Len(t, snap.Transactions, 1)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, models.CategoryOther, snap.Transactions[0].Category)
	assert.Len(t, logger.GetEntriesByLevel("ERROR"), 3)
}

func TestLedger_LoadFailure(t *testing.T) {
	l, backend, _ := newTestLedger(t)
	backend.LoadLedgerError = &parsererror.PersistenceError{Operation: "load ledger", Err: errors.New("boom")}

	err := l.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, l.Snapshot().Transactions)
}

func TestLedger_SnapshotIsACopy(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, err := l.Ingest(context.Background(), makeResult("f1", "f1.csv", -10))
	require.NoError(t, err)

	snap := l.Snapshot()
	snap.Transactions[0].Category = "Tampered"
	snap.Files[0].Count = 99

	again := l.Snapshot()
	assert.Equal(t, models.CategoryOther, again.Transactions[0].Category)
	assert.Equal(t, 1, again.Files[0].Count)
}

func TestLedger_SubscribeReceivesLatestSnapshot(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	updates, cancel := l.Subscribe()
	defer cancel()

	_, err := l.Ingest(ctx, makeResult("f1", "f1.csv", -10))
	require.NoError(t, err)
	_, err = l.Ingest(ctx, makeResult("f2", "f2.csv", -20, -30))
	require.NoError(t, err)

	select {
	case snap := <-updates:
		assert.Len(t, snap.Transactions, 3)
		assert.Len(t, snap.Files, 2)
	default:
		t.Fatal("expected a pending snapshot")
	}

	select {
	case <-updates:
		t.Fatal("only the latest snapshot should be pending")
	default:
	}
}

func TestLedger_Unsubscribe(t *testing.T) {
	l, _, _ := newTestLedger(t)

	updates, cancel := l.Subscribe()
	cancel()
	cancel()

	_, ok := <-updates
	assert.False(t, ok)

	_, err := l.Ingest(context.Background(), makeResult("f1", "f1.csv", -10))
	require.NoError(t, err)
}

func TestLedger_ConcurrentMutations(t *testing.T) {
	l, backend, _ := newTestLedger(t)
	ctx := context.Background()

	const imports = 20
	var wg sync.WaitGroup
	for i := 0; i < imports; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Ingest(ctx, makeResult(fmt.Sprintf("f%02d", i), "x.csv", -1, -2))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap := l.Snapshot()
	assert.Len(t, snap.Files, imports)
	assert.Len(t, snap.Transactions, imports*2)
	assert.Equal(t, imports, backend.SaveLedgerCalls)

	for i := 0; i < imports; i += 2 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.RemoveFile(ctx, fmt.Sprintf("f%02d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap = l.Snapshot()
	assert.Len(t, snap.Files, imports/2)
	assert.Len(t, snap.Transactions, imports)
	for _, f := range snap.Files {
		assert.Len(t, snap.Filter("", f.ID), f.Count)
	}
}

func TestSnapshot_Filter(t *testing.T) {
	snap := Snapshot{Transactions: []models.Transaction{
		{ID: "1", Date: "2025-10-01", FileID: "a"},
		{ID: "2", Date: "2025-11-01", FileID: "a"},
		{ID: "3", Date: "2025-11-02", FileID: "b"},
	}}

	assert.Len(t, snap.Filter("", ""), 3)
	assert.Len(t, snap.Filter("2025-11", ""), 2)
	assert.Len(t, snap.Filter("", "a"), 2)
	got := snap.Filter("2025-11", "b")
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}
