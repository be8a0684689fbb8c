package collections

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"scanquote/config"
	"scanquote/services"
)

// Setup programmatically creates/ensures the pricing_configs, scan_records
// and quotes collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "pricing_configs", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.JSONField{Name: "config", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "scan_records", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "building_type", Required: true})
		c.Fields.Add(&core.NumberField{Name: "square_footage", Required: true})
		c.Fields.Add(&core.NumberField{Name: "floor_count", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "scan_days"})
		c.Fields.Add(&core.NumberField{Name: "scan_minutes"})
		c.Fields.Add(&core.NumberField{Name: "travel_days"})
		c.Fields.Add(&core.NumberField{Name: "scan_positions", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "deliverable_type"})
		c.Fields.Add(&core.SelectField{
			Name:      "complexity",
			Values:    []string{services.ComplexityLow, services.ComplexityMedium, services.ComplexityHigh},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "completed_on"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.JSONField{Name: "project_input"})
		c.Fields.Add(&core.JSONField{Name: "line_items"})
		c.Fields.Add(&core.NumberField{Name: "total_price"})
		c.Fields.Add(&core.NumberField{Name: "total_cost"})
		c.Fields.Add(&core.NumberField{Name: "gross_margin"})
		c.Fields.Add(&core.NumberField{Name: "gross_margin_percent"})
		c.Fields.Add(&core.SelectField{
			Name: "integrity_status",
			Values: []string{
				string(services.IntegrityPassed),
				string(services.IntegrityWarning),
				string(services.IntegrityBlocked),
			},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "integrity_flags"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	logger := config.GetLogger().WithField("collection", name)

	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logger.Debug("collection already exists, skipping creation")
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		logger.WithError(err).Fatal("failed to create collection")
	}

	logger.WithFields(logrus.Fields{"id": collection.Id}).Info("created collection")
	return collection
}
