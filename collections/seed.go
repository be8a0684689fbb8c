package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"

	"scanquote/config"
	"scanquote/services"
)

// DefaultPricingConfigName is the name of the seeded pricing config.
const DefaultPricingConfigName = "Default pricing"

// SeedDefaultPricingConfig stores cfg as the active pricing config when no
// pricing config has been saved yet. Safe to call on every startup.
func SeedDefaultPricingConfig(app *pocketbase.PocketBase, cfg services.PricingConfig) error {
	logger := config.GetLogger()

	existing, err := app.FindAllRecords("pricing_configs")
	if err != nil {
		return fmt.Errorf("seed: could not query pricing configs: %w", err)
	}
	if len(existing) > 0 {
		logger.Debugf("seed: %d pricing config(s) present, skipping", len(existing))
		return nil
	}

	rec, err := SavePricingConfig(app, DefaultPricingConfigName, cfg)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.WithField("id", rec.Id).Info("seed: stored default pricing config")
	return nil
}
