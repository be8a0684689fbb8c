package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"scanquote/collections"
	"scanquote/config"
	"scanquote/services"
)

// PricingView pairs a stored pricing config with its resolved figures.
type PricingView struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Config     services.PricingConfig     `json:"config"`
	Resolution services.PricingResolution `json:"resolution"`
}

type pricingSaveRequest struct {
	Name   string                 `json:"name"`
	Config services.PricingConfig `json:"config"`
}

// HandlePricingActive returns a handler that renders the active pricing
// config together with its overhead, allocation and multiplier resolution.
func HandlePricingActive(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cfg, rec, err := collections.ActivePricingConfig(app)
		if err != nil {
			return respondError(e, "HandlePricingActive", err)
		}
		return e.JSON(http.StatusOK, PricingView{
			ID:         rec.Id,
			Name:       rec.GetString("name"),
			Config:     cfg,
			Resolution: services.ResolvePricing(cfg),
		})
	}
}

// HandlePricingSave returns a handler that validates a pricing config, stores
// it and makes it the active one.
func HandlePricingSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body pricingSaveRequest
		if err := e.BindBody(&body); err != nil {
			return respondBadRequest(e, "Malformed request body")
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			name = "Pricing " + time.Now().UTC().Format("2006-01-02 15:04")
		}

		rec, err := collections.SavePricingConfig(app, name, body.Config)
		if err != nil {
			return respondError(e, "HandlePricingSave", err)
		}

		res := services.ResolvePricing(body.Config)
		config.GetLogger().WithFields(logrus.Fields{
			"handler":    "HandlePricingSave",
			"config":     rec.Id,
			"multiplier": res.COGSMultiplier,
			"clamped":    res.Clamped,
		}).Info("pricing config activated")

		return e.JSON(http.StatusCreated, PricingView{
			ID:         rec.Id,
			Name:       name,
			Config:     body.Config,
			Resolution: res,
		})
	}
}

// HandlePricingContext returns a handler that renders the prose summary of
// the active pricing model and recent scan performance.
func HandlePricingContext(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cfg, _, err := collections.ActivePricingConfig(app)
		if err != nil {
			return respondError(e, "HandlePricingContext", err)
		}
		metrics, err := windowedScanMetrics(app, cfg, time.Now().UTC())
		if err != nil {
			return respondError(e, "HandlePricingContext", err)
		}

		summary := services.BuildPricingContext(services.ResolvePricing(cfg), metrics, cfg.ScanIntelligence)
		return e.JSON(http.StatusOK, map[string]string{"context": summary})
	}
}
