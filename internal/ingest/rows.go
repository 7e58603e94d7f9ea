package ingest

import "strings"

// statementRow holds one raw CSV record. Each accepted header alias has its own
// field so the first non-empty alias can be chosen per row.
type statementRow struct {
	Date      string `csv:"Date"`
	Dato      string `csv:"Dato"`
	DateLower string `csv:"date"`

	Text      string `csv:"Text"`
	Tekst     string `csv:"Tekst"`
	TextLower string `csv:"text"`

	Currency string `csv:"Currency"`
	Valuta   string `csv:"Valuta"`
	Val      string `csv:"Val"`

	Amount       string `csv:"Amount"`
	Belob        string `csv:"Beløb"`
	IndsatHaevet   string `csv:"= Indsat / = Hævet"`

	Saldo string `csv:"Saldo"`
}

func (r statementRow) date() string {
	return firstNonEmpty(r.Date, r.Dato, r.DateLower)
}

func (r statementRow) text() string {
	return firstNonEmpty(r.Text, r.Tekst, r.TextLower)
}

func (r statementRow) currency() string {
	return firstNonEmpty(r.Currency, r.Valuta, r.Val)
}

func (r statementRow) amount() string {
	return firstNonEmpty(r.Amount, r.Belob, r.IndsatHaevet)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Header aliases per logical field, in resolution order.
var (
	dateHeaders    = []string{"Date", "Dato", "date"}
	balanceHeaders = []string{"Saldo"}
)

type columnSet struct {
	date    bool
	balance bool
}

func detectColumns(header []string) columnSet {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = true
	}
	return columnSet{
		date:    anyPresent(present, dateHeaders),
		balance: anyPresent(present, balanceHeaders),
	}
}

func anyPresent(present map[string]bool, names []string) bool {
	for _, n := range names {
		if present[n] {
			return true
		}
	}
	return false
}
