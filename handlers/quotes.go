package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"scanquote/collections"
	"scanquote/config"
	"scanquote/services"
)

// QuoteView is the JSON representation of a stored quote.
type QuoteView struct {
	ID        string                   `json:"id"`
	Title     string                   `json:"title"`
	Project   services.ProjectInput    `json:"project"`
	LineItems []services.LineItemShell `json:"lineItems"`
	Totals    services.QuoteTotals     `json:"totals"`
}

type quoteCreateRequest struct {
	Title   string                `json:"title"`
	Project services.ProjectInput `json:"project"`
}

type lineItemsRequest struct {
	LineItems []services.LineItemShell `json:"lineItems"`
}

func quoteView(rec *core.Record) (QuoteView, error) {
	in, err := collections.QuoteProjectInput(rec)
	if err != nil {
		return QuoteView{}, err
	}
	items, err := collections.QuoteLineItems(rec)
	if err != nil {
		return QuoteView{}, err
	}
	return QuoteView{
		ID:        rec.Id,
		Title:     rec.GetString("title"),
		Project:   in,
		LineItems: items,
		Totals:    services.CalcQuoteTotals(items),
	}, nil
}

// HandleQuoteCreate returns a handler that validates a project description,
// generates its line-item shells and stores them as a new quote.
func HandleQuoteCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body quoteCreateRequest
		if err := e.BindBody(&body); err != nil {
			return respondBadRequest(e, "Malformed request body")
		}
		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return e.JSON(http.StatusBadRequest, errorResponse{
				Error:  "invalid input",
				Fields: map[string]string{"title": "is required"},
			})
		}

		shells, err := services.GenerateShells(body.Project, services.NewIDSequence())
		if err != nil {
			return respondError(e, "HandleQuoteCreate", err)
		}

		col, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			return respondError(e, "HandleQuoteCreate", err)
		}
		rec := core.NewRecord(col)
		rec.Set("title", body.Title)
		rec.Set("project_input", body.Project)
		collections.SetQuoteLineItems(rec, shells)
		if err := app.Save(rec); err != nil {
			return respondError(e, "HandleQuoteCreate", err)
		}

		config.GetLogger().WithFields(logrus.Fields{
			"handler": "HandleQuoteCreate",
			"quote":   rec.Id,
			"shells":  len(shells),
		}).Info("quote created")

		view, err := quoteView(rec)
		if err != nil {
			return respondError(e, "HandleQuoteCreate", err)
		}
		return e.JSON(http.StatusCreated, view)
	}
}

// HandleQuoteView returns a handler that renders a stored quote with freshly
// computed totals.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quotes", e.Request.PathValue("id"))
		if err != nil {
			return respondNotFound(e, "Quote")
		}
		view, err := quoteView(rec)
		if err != nil {
			return respondError(e, "HandleQuoteView", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleQuoteShells returns a handler that regenerates a quote's shells from
// its stored project description. With ?estimate=true the active pricing
// config attaches costs and prices; ?situational=a,b selects multipliers.
func HandleQuoteShells(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quotes", e.Request.PathValue("id"))
		if err != nil {
			return respondNotFound(e, "Quote")
		}
		in, err := collections.QuoteProjectInput(rec)
		if err != nil {
			return respondError(e, "HandleQuoteShells", err)
		}

		shells, err := services.GenerateShells(in, services.NewIDSequence())
		if err != nil {
			return respondError(e, "HandleQuoteShells", err)
		}

		query := e.Request.URL.Query()
		if query.Get("estimate") == "true" {
			cfg, _, err := collections.ActivePricingConfig(app)
			if err != nil {
				return respondError(e, "HandleQuoteShells", err)
			}
			shells = services.EstimateCosts(in, shells, cfg)
			shells, err = services.PriceShells(shells, cfg, splitList(query.Get("situational")))
			if err != nil {
				return respondError(e, "HandleQuoteShells", err)
			}
		}

		totals := collections.SetQuoteLineItems(rec, shells)
		if err := app.Save(rec); err != nil {
			return respondError(e, "HandleQuoteShells", err)
		}

		config.GetLogger().WithFields(logrus.Fields{
			"handler":   "HandleQuoteShells",
			"quote":     rec.Id,
			"integrity": totals.IntegrityStatus,
		}).Info("quote shells regenerated")

		return e.JSON(http.StatusOK, QuoteView{
			ID:        rec.Id,
			Title:     rec.GetString("title"),
			Project:   in,
			LineItems: shells,
			Totals:    totals,
		})
	}
}

// HandleQuoteLineItemsUpdate returns a handler that replaces a quote's line
// items with caller-priced items and recomputes the integrity verdict.
func HandleQuoteLineItemsUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quotes", e.Request.PathValue("id"))
		if err != nil {
			return respondNotFound(e, "Quote")
		}

		var body lineItemsRequest
		if err := e.BindBody(&body); err != nil {
			return respondBadRequest(e, "Malformed request body")
		}
		if err := services.ValidateLineItems(body.LineItems); err != nil {
			return respondError(e, "HandleQuoteLineItemsUpdate", err)
		}

		collections.SetQuoteLineItems(rec, body.LineItems)
		if err := app.Save(rec); err != nil {
			return respondError(e, "HandleQuoteLineItemsUpdate", err)
		}

		view, err := quoteView(rec)
		if err != nil {
			return respondError(e, "HandleQuoteLineItemsUpdate", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// splitList splits a comma-separated query value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
