package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"scanquote/config"
	"scanquote/services"
)

const importBatchSize = 100

// ImportResult holds the outcome of a batch import.
type ImportResult struct {
	TotalRows  int                       `json:"totalRows"`
	Imported   int                       `json:"imported"`
	Failed     int                       `json:"failed"`
	Errors     []services.ImportRowError `json:"errors,omitempty"`
	RolledBack bool                      `json:"rolledBack"`
}

// ImportScanRecords inserts parsed scan rows in chunks of importBatchSize.
// Each chunk runs in its own transaction: if any insert fails the whole chunk
// is rolled back and the next chunk is still attempted.
func ImportScanRecords(app core.App, parsed *services.ScanImportResult) (*ImportResult, error) {
	if parsed == nil {
		return nil, fmt.Errorf("import: nothing to import")
	}
	if len(parsed.RowNumbers) != len(parsed.Records) {
		return nil, fmt.Errorf("import: %d row numbers for %d records", len(parsed.RowNumbers), len(parsed.Records))
	}

	result := &ImportResult{TotalRows: len(parsed.Records)}

	for start := 0; start < len(parsed.Records); start += importBatchSize {
		end := start + importBatchSize
		if end > len(parsed.Records) {
			end = len(parsed.Records)
		}

		chunkErrors := insertChunk(app, parsed.Records[start:end], parsed.RowNumbers[start:end])
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += end - start
			result.RolledBack = true
		} else {
			result.Imported += end - start
		}
	}

	return result, nil
}

// insertChunk saves one batch inside RunInTransaction.
// If any row fails, the entire chunk is rolled back and its errors are returned.
func insertChunk(app core.App, records []services.ScanRecord, rowNumbers []int) []services.ImportRowError {
	var chunkErrors []services.ImportRowError

	err := app.RunInTransaction(func(txApp core.App) error {
		for i, sr := range records {
			if _, err := SaveScanRecord(txApp, sr); err != nil {
				chunkErrors = append(chunkErrors, services.ImportRowError{
					Row:     rowNumbers[i],
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", rowNumbers[i], err)
			}
		}
		return nil
	})

	if err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"module": "collections",
			"rows":   len(records),
		}).WithError(err).Warn("import: chunk insert rolled back")
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, services.ImportRowError{
				Row:     rowNumbers[0],
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
	}

	return chunkErrors
}
