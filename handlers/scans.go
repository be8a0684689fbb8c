package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"scanquote/collections"
	"scanquote/services"
)

// windowedScanMetrics aggregates stored scans inside the config's rolling window.
func windowedScanMetrics(app *pocketbase.PocketBase, cfg services.PricingConfig, now time.Time) (services.ScanMetrics, error) {
	records, err := collections.LoadScanRecords(app)
	if err != nil {
		return services.ScanMetrics{}, err
	}
	return services.CalcScanMetrics(services.FilterScanRecords(records, cfg.ScanIntelligence, now)), nil
}

// HandleScanRecordCreate returns a handler that stores a completed scan job.
func HandleScanRecordCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var sr services.ScanRecord
		if err := e.BindBody(&sr); err != nil {
			return respondBadRequest(e, "Malformed request body")
		}
		if err := services.ValidateScanRecord(sr); err != nil {
			return respondError(e, "HandleScanRecordCreate", err)
		}
		sr.Complexity = services.NormalizeComplexity(sr.Complexity)
		if sr.CompletedOn.IsZero() {
			sr.CompletedOn = time.Now().UTC()
		}

		rec, err := collections.SaveScanRecord(app, sr)
		if err != nil {
			return respondError(e, "HandleScanRecordCreate", err)
		}
		return e.JSON(http.StatusCreated, map[string]any{
			"id":     rec.Id,
			"record": collections.ScanRecordFromRecord(rec),
		})
	}
}

// HandleScanMetrics returns a handler that aggregates stored scans over the
// active pricing config's rolling window. Without an active config every
// record is included.
func HandleScanMetrics(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cfg, _, err := collections.ActivePricingConfig(app)
		if err != nil && !errors.Is(err, collections.ErrNoActivePricingConfig) {
			return respondError(e, "HandleScanMetrics", err)
		}

		metrics, err := windowedScanMetrics(app, cfg, time.Now().UTC())
		if err != nil {
			return respondError(e, "HandleScanMetrics", err)
		}
		return e.JSON(http.StatusOK, metrics)
	}
}
