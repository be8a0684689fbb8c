package handlers

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"scanquote/collections"
	"scanquote/services"
)

// buildQuoteExportData loads a quote and assembles the data for export.
func buildQuoteExportData(app *pocketbase.PocketBase, quoteID string) (services.QuoteExportData, error) {
	rec, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return services.QuoteExportData{}, fmt.Errorf("quote not found: %w", err)
	}

	items, err := collections.QuoteLineItems(rec)
	if err != nil {
		return services.QuoteExportData{}, err
	}

	data := services.QuoteExportData{
		Title:   rec.GetString("title"),
		QuoteID: rec.Id,
		Items:   items,
		Totals:  services.CalcQuoteTotals(items),
	}
	if dt := rec.GetDateTime("created"); !dt.IsZero() {
		data.CreatedDate = dt.Time().Format("02 Jan 2006")
	}
	return data, nil
}

// sanitizeFilename replaces characters that are unsafe in filenames.
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	return replacer.Replace(s)
}

// HandleQuoteExportExcel returns a handler that generates and downloads an Excel file for a quote.
func HandleQuoteExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")

		data, err := buildQuoteExportData(app, quoteID)
		if err != nil {
			return respondNotFound(e, "Quote")
		}

		xlsxBytes, err := services.GenerateQuoteExcel(data)
		if err != nil {
			return respondError(e, "HandleQuoteExportExcel", err)
		}

		filename := sanitizeFilename(data.Title) + ".xlsx"
		return writeXLSX(e, filename, xlsxBytes)
	}
}
