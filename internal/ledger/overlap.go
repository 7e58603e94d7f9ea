package ledger

import (
	"strings"

	"fjacquet/budget-csv/internal/models"
)

// overlapKey identifies a booking independently of the import it came from.
type overlapKey struct {
	date   string
	amount string
	text   string
}

func keyOf(t models.Transaction) overlapKey {
	return overlapKey{
		date:   t.Date,
		amount: t.Amount.String(),
		text:   strings.ToLower(strings.TrimSpace(t.Text)),
	}
}

// findOverlaps returns the incoming transactions that look like a booking already in
// the ledger: same date, same amount and same text ignoring case. Importing a
// statement twice, or two statements with overlapping periods, produces these.
// Each existing booking matches at most one incoming transaction, so genuine repeats
// inside one statement are not reported.
func findOverlaps(existing, incoming []models.Transaction) []models.Transaction {
	if len(existing) == 0 || len(incoming) == 0 {
		return nil
	}

	available := make(map[overlapKey]int, len(existing))
	for _, t := range existing {
		available[keyOf(t)]++
	}

	var overlaps []models.Transaction
	for _, t := range incoming {
		k := keyOf(t)
		if available[k] > 0 {
			available[k]--
			overlaps = append(overlaps, t)
		}
	}
	return overlaps
}
