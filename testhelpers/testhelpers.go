// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"scanquote/collections"
	"scanquote/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// TestPricingConfig returns a small config whose COGS multiplier is exactly 2:
// 15% personnel, 15% profit and a 20% manual overhead leave 50 points of room.
func TestPricingConfig() services.PricingConfig {
	return services.PricingConfig{
		ScanCosts: []services.ScanCostRate{
			{BuildingType: "default", PerSqft: 0.10},
		},
		ModelingCosts: []services.ModelingCostRate{
			{Discipline: services.DisciplineArchitecture, Tier: "300", PerSqft: 0.15},
			{Discipline: services.DisciplineStructural, Tier: "300", PerSqft: 0.05},
		},
		DefaultMileageRate: 0.5,
		PersonnelAllocations: []services.Allocation{
			{Name: "Owner pay", Percent: 10},
			{Name: "Project management", Percent: 5},
		},
		ProfitAllocations: []services.ProfitAllocation{
			{Name: "Profit", Percent: 10},
			{Name: "Growth reserve", Percent: 5, Flexible: true},
		},
		Overhead: services.OverheadConfig{ManualOverridePercent: services.Float(20)},
		AddOnServices: []services.AddOnService{
			{Name: "georeferencing", VendorCost: 300, Markup: 1.5},
		},
		SituationalFactors: []services.SituationalFactor{
			{Name: "occupied", Trigger: "Building in use", Factor: 1.1},
		},
		ScanIntelligence: services.ScanIntelligenceConfig{MinimumSampleSize: 3},
	}
}

// TestProjectInput returns a one-area driving project 100 miles away.
func TestProjectInput() services.ProjectInput {
	return services.ProjectInput{
		DispatchLocation: "Troy, NY",
		DistanceMiles:    services.Float(100),
		TravelMode:       services.TravelDriving,
		Areas: []services.AreaInput{{
			ID:            "a1",
			Kind:          "Office",
			Name:          "Main Building",
			SquareFootage: services.Float(10000),
			Scope:         services.ScopeFull,
			LOD:           services.LOD300,
		}},
	}
}

// CreateTestPricingConfig stores cfg as the active pricing config and returns it.
func CreateTestPricingConfig(t *testing.T, app *pocketbase.PocketBase, name string, cfg services.PricingConfig) *core.Record {
	t.Helper()

	record, err := collections.SavePricingConfig(app, name, cfg)
	if err != nil {
		t.Fatalf("failed to save test pricing config: %v", err)
	}

	return record
}

// CreateTestQuote creates a quote record for in, with no line items yet.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, title string, in services.ProjectInput) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("project_input", in)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestScanRecord stores a completed scan job.
func CreateTestScanRecord(t *testing.T, app *pocketbase.PocketBase, buildingType string, sqft, days float64, completedOn time.Time) *core.Record {
	t.Helper()

	record, err := collections.SaveScanRecord(app, services.ScanRecord{
		BuildingType:    buildingType,
		SquareFootage:   sqft,
		FloorCount:      1,
		ScanDays:        days,
		ScanMinutes:     days * 300,
		ScanPositions:   int(days * 50),
		DeliverableType: "Revit",
		Complexity:      services.ComplexityMedium,
		CompletedOn:     completedOn,
	})
	if err != nil {
		t.Fatalf("failed to save test scan record: %v", err)
	}

	return record
}

// MustJSON marshals v or fails the test.
func MustJSON(t *testing.T, v any) string {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, got:\n%s", frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
