package main

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"scanquote/collections"
	"scanquote/commands"
	"scanquote/config"
	"scanquote/handlers"
)

func main() {
	app := pocketbase.New()
	logger := config.GetLogger()

	app.RootCmd.AddCommand(commands.NewQuoteCommand())
	app.RootCmd.AddCommand(commands.NewResolveCommand())

	// Create collections, seed pricing and backfill integrity on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)

		cfg, err := config.DefaultPricingConfig()
		if err != nil {
			config.LogError(logger, "main", "OnServe", "load default pricing", nil, err)
		} else if err := collections.SeedDefaultPricingConfig(app, cfg); err != nil {
			config.LogError(logger, "main", "OnServe", "seed pricing config", nil, err)
		}

		if err := collections.MigrateQuoteIntegrity(app); err != nil {
			config.LogError(logger, "main", "OnServe", "quote integrity migration", nil, err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Quotes ───────────────────────────────────────────────
		se.Router.POST("/quotes", handlers.HandleQuoteCreate(app))
		se.Router.GET("/quotes/{id}", handlers.HandleQuoteView(app))
		se.Router.POST("/quotes/{id}/shells", handlers.HandleQuoteShells(app))
		se.Router.PUT("/quotes/{id}/line-items", handlers.HandleQuoteLineItemsUpdate(app))
		se.Router.GET("/quotes/{id}/export/excel", handlers.HandleQuoteExportExcel(app))

		// ── Pricing ──────────────────────────────────────────────
		se.Router.GET("/pricing/active", handlers.HandlePricingActive(app))
		se.Router.POST("/pricing", handlers.HandlePricingSave(app))
		se.Router.GET("/pricing/context", handlers.HandlePricingContext(app))

		// ── Scan intelligence ────────────────────────────────────
		se.Router.POST("/scan-records", handlers.HandleScanRecordCreate(app))
		se.Router.GET("/scan-records/template", handlers.HandleScanImportTemplate(app))
		se.Router.POST("/scan-records/import", handlers.HandleScanImport(app))
		se.Router.POST("/scan-records/import/errors", handlers.HandleScanImportErrorReport(app))
		se.Router.GET("/scan-metrics", handlers.HandleScanMetrics(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal(err)
	}
}
