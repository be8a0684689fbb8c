package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/sirupsen/logrus"

	"scanquote/config"
)

// MigrateQuoteIntegrity recomputes totals and the integrity verdict for
// quotes that carry line items but were stored without a verdict.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateQuoteIntegrity(app *pocketbase.PocketBase) error {
	logger := config.GetLogger()

	stale, err := app.FindRecordsByFilter("quotes", "integrity_status = ''", "", 0, 0)
	if err != nil {
		return fmt.Errorf("migrate: could not query quotes: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	logger.Infof("migrate: found %d quote(s) without an integrity verdict", len(stale))

	for _, rec := range stale {
		items, err := QuoteLineItems(rec)
		if err != nil {
			config.LogError(logger, "collections", "MigrateQuoteIntegrity", "decode line items", rec.Id, err)
			continue
		}
		if len(items) == 0 {
			continue
		}

		totals := SetQuoteLineItems(rec, items)
		if err := app.Save(rec); err != nil {
			config.LogError(logger, "collections", "MigrateQuoteIntegrity", "save quote", rec.Id, err)
			continue
		}

		logger.WithFields(logrus.Fields{
			"quote":  rec.Id,
			"status": totals.IntegrityStatus,
		}).Info("migrate: recomputed quote integrity")
	}

	return nil
}
