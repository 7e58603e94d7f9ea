// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"fjacquet/budget-csv/internal/container"
	"fjacquet/budget-csv/internal/fileutils"
	"fjacquet/budget-csv/internal/ingest"
	"fjacquet/budget-csv/internal/ledger"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/validation"
)

// ImportFile ingests one statement file, categorizing with the user rules and the
// keyword dictionary, and appends it to the ledger.
func ImportFile(ctx context.Context, c *container.Container, path, label string) (ingest.Result, error) {
	if err := validation.IsValidPath(path); err != nil {
		return ingest.Result{}, err
	}

	result, err := c.GetPipeline().IngestFile(path, label, c.GetRuleStore())
	if err != nil {
		return ingest.Result{}, fmt.Errorf("error importing %s: %w", path, err)
	}
	if _, err := c.GetLedger().Ingest(ctx, result); err != nil {
		return ingest.Result{}, fmt.Errorf("error storing %s: %w", path, err)
	}
	return result, nil
}

// ImportDirectory ingests every .csv file of dir in name order. Files that fail are
// logged and skipped; their errors are returned joined after the remaining files ran.
func ImportDirectory(ctx context.Context, c *container.Container, dir string) ([]ingest.Result, error) {
	files, err := fileutils.ListFilesWithExtension(dir, ".csv")
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", dir, err)
	}

	log := c.GetLogger()
	results := make([]ingest.Result, 0, len(files))
	var errs []error
	for _, file := range files {
		result, err := ImportFile(ctx, c, file, filepath.Base(file))
		if err != nil {
			log.WithError(err).Warn("Skipping file", logging.F(logging.FieldFile, file))
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}

	log.Info("Directory import finished",
		logging.F(logging.FieldFile, dir),
		logging.F(logging.FieldCount, len(results)),
		logging.F(logging.FieldSkipped, len(errs)))
	return results, errors.Join(errs...)
}

// SetCategory re-categorizes one transaction. When learnPattern is not empty a rule
// is also stored so future imports containing the pattern get the same category.
func SetCategory(ctx context.Context, c *container.Container, transactionID, category, learnPattern string) (ledger.Snapshot, error) {
	snap, err := c.GetLedger().UpdateCategory(ctx, transactionID, category)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	if learnPattern != "" {
		if _, err := c.GetRuleStore().AddRule(ctx, learnPattern, category); err != nil {
			return snap, fmt.Errorf("category updated but rule not saved: %w", err)
		}
	}
	return snap, nil
}
