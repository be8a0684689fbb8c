package collections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"scanquote/services"
)

// ErrNoActivePricingConfig is returned when no pricing_configs record is active.
var ErrNoActivePricingConfig = errors.New("no active pricing config")

// ActivePricingConfig loads the most recently updated active pricing config.
func ActivePricingConfig(app core.App) (services.PricingConfig, *core.Record, error) {
	records, err := app.FindRecordsByFilter("pricing_configs", "is_active = true", "-updated", 1, 0)
	if err != nil {
		return services.PricingConfig{}, nil, fmt.Errorf("query pricing configs: %w", err)
	}
	if len(records) == 0 {
		return services.PricingConfig{}, nil, ErrNoActivePricingConfig
	}

	var cfg services.PricingConfig
	if err := unmarshalJSONField(records[0], "config", &cfg); err != nil {
		return services.PricingConfig{}, nil, fmt.Errorf("decode pricing config %s: %w", records[0].Id, err)
	}
	return cfg, records[0], nil
}

// SavePricingConfig validates cfg, stores it as a new record and makes it the
// only active config.
func SavePricingConfig(app core.App, name string, cfg services.PricingConfig) (*core.Record, error) {
	if err := services.ValidatePricingConfig(cfg); err != nil {
		return nil, err
	}

	var saved *core.Record
	err := app.RunInTransaction(func(txApp core.App) error {
		active, err := txApp.FindRecordsByFilter("pricing_configs", "is_active = true", "", 0, 0)
		if err != nil {
			return fmt.Errorf("query active configs: %w", err)
		}
		for _, r := range active {
			r.Set("is_active", false)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("deactivate config %s: %w", r.Id, err)
			}
		}

		col, err := txApp.FindCollectionByNameOrId("pricing_configs")
		if err != nil {
			return fmt.Errorf("find pricing_configs collection: %w", err)
		}
		rec := core.NewRecord(col)
		rec.Set("name", name)
		rec.Set("config", cfg)
		rec.Set("is_active", true)
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("save pricing config: %w", err)
		}
		saved = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ScanRecordFromRecord maps a scan_records row onto the metrics input.
func ScanRecordFromRecord(rec *core.Record) services.ScanRecord {
	return services.ScanRecord{
		BuildingType:    rec.GetString("building_type"),
		SquareFootage:   rec.GetFloat("square_footage"),
		FloorCount:      rec.GetInt("floor_count"),
		ScanDays:        rec.GetFloat("scan_days"),
		ScanMinutes:     rec.GetFloat("scan_minutes"),
		TravelDays:      rec.GetFloat("travel_days"),
		ScanPositions:   rec.GetInt("scan_positions"),
		DeliverableType: rec.GetString("deliverable_type"),
		Complexity:      rec.GetString("complexity"),
		CompletedOn:     rec.GetDateTime("completed_on").Time(),
	}
}

// LoadScanRecords returns every stored scan record.
func LoadScanRecords(app core.App) ([]services.ScanRecord, error) {
	records, err := app.FindAllRecords("scan_records")
	if err != nil {
		return nil, fmt.Errorf("query scan records: %w", err)
	}
	out := make([]services.ScanRecord, 0, len(records))
	for _, r := range records {
		out = append(out, ScanRecordFromRecord(r))
	}
	return out, nil
}

// SaveScanRecord stores a completed scan job.
func SaveScanRecord(app core.App, sr services.ScanRecord) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId("scan_records")
	if err != nil {
		return nil, fmt.Errorf("find scan_records collection: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("building_type", sr.BuildingType)
	rec.Set("square_footage", sr.SquareFootage)
	rec.Set("floor_count", sr.FloorCount)
	rec.Set("scan_days", sr.ScanDays)
	rec.Set("scan_minutes", sr.ScanMinutes)
	rec.Set("travel_days", sr.TravelDays)
	rec.Set("scan_positions", sr.ScanPositions)
	rec.Set("deliverable_type", sr.DeliverableType)
	rec.Set("complexity", sr.Complexity)
	if !sr.CompletedOn.IsZero() {
		rec.Set("completed_on", sr.CompletedOn)
	}
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save scan record: %w", err)
	}
	return rec, nil
}

// QuoteProjectInput decodes the project description stored on a quote.
func QuoteProjectInput(rec *core.Record) (services.ProjectInput, error) {
	var in services.ProjectInput
	if err := unmarshalJSONField(rec, "project_input", &in); err != nil {
		return services.ProjectInput{}, fmt.Errorf("decode project input of quote %s: %w", rec.Id, err)
	}
	return in, nil
}

// QuoteLineItems decodes the line items stored on a quote. A quote without
// stored items yields an empty slice.
func QuoteLineItems(rec *core.Record) ([]services.LineItemShell, error) {
	var items []services.LineItemShell
	if err := unmarshalJSONField(rec, "line_items", &items); err != nil {
		return nil, fmt.Errorf("decode line items of quote %s: %w", rec.Id, err)
	}
	if items == nil {
		items = []services.LineItemShell{}
	}
	return items, nil
}

// SetQuoteLineItems stores items on the quote and recomputes its totals and
// integrity verdict. The caller saves the record.
func SetQuoteLineItems(rec *core.Record, items []services.LineItemShell) services.QuoteTotals {
	if items == nil {
		items = []services.LineItemShell{}
	}
	totals := services.CalcQuoteTotals(items)
	rec.Set("line_items", items)
	rec.Set("total_price", totals.TotalPrice)
	rec.Set("total_cost", totals.TotalCost)
	rec.Set("gross_margin", totals.GrossMargin)
	rec.Set("gross_margin_percent", totals.GrossMarginPercent)
	rec.Set("integrity_status", string(totals.IntegrityStatus))
	rec.Set("integrity_flags", totals.IntegrityFlags)
	return totals
}

// unmarshalJSONField decodes a json field, leaving result untouched when the
// field was never set.
func unmarshalJSONField(rec *core.Record, key string, result any) error {
	raw := strings.TrimSpace(rec.GetString(key))
	if raw == "" || raw == "null" {
		return nil
	}
	return rec.UnmarshalJSONField(key, result)
}
