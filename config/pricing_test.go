package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scanquote/services"
)

func TestDefaultPricingConfig(t *testing.T) {
	cfg, err := DefaultPricingConfig()
	if err != nil {
		t.Fatalf("DefaultPricingConfig() error = %v", err)
	}

	res := services.ResolvePricing(cfg)
	if res.OverheadSource != services.OverheadNoData {
		t.Errorf("OverheadSource = %q, want default_no_data", res.OverheadSource)
	}
	// 15 personnel + 15 profit + 20 default overhead leaves 50 points of room.
	if res.COGSMultiplier != 2 {
		t.Errorf("COGSMultiplier = %v, want 2", res.COGSMultiplier)
	}
	if cfg.DefaultMileageRate != 0.67 {
		t.Errorf("DefaultMileageRate = %v, want 0.67", cfg.DefaultMileageRate)
	}

	for _, cat := range []services.Category{
		services.CategoryGeoreferencing,
		services.CategoryExpedited,
		services.CategoryLandscape,
		services.CategoryScanRegistration,
	} {
		found := false
		for _, a := range cfg.AddOnServices {
			if a.Name == string(cat) {
				found = true
			}
		}
		if !found {
			t.Errorf("no add-on service for %s", cat)
		}
	}
}

func TestDefaultPricingConfig_PricesEveryGeneratedLine(t *testing.T) {
	cfg, err := DefaultPricingConfig()
	if err != nil {
		t.Fatalf("DefaultPricingConfig() error = %v", err)
	}

	enabled := true
	area := services.AreaInput{
		ID: "a1", Kind: "Office", SquareFootage: services.Float(12000),
		Scope: services.ScopeFull, LOD: services.LOD350,
		Structural: &services.SubScopeInput{Enabled: &enabled, SquareFootage: services.Float(12000)},
		MEPF:       &services.SubScopeInput{Enabled: &enabled, SquareFootage: services.Float(12000)},
		ACT:        &services.SubScopeInput{Enabled: &enabled, SquareFootage: services.Float(8000)},
		BelowFloor: &services.SubScopeInput{Enabled: &enabled, SquareFootage: services.Float(3000)},
		CAD:        services.CADASSite,
	}
	in := services.ProjectInput{
		DispatchLocation: "Troy, NY", DistanceMiles: services.Float(40), TravelMode: services.TravelDriving,
		Georeferencing: true, Expedited: true,
		LandscapeMode: services.LandscapeNatural, LandscapeAcres: services.Float(3), LandscapeTerrain: services.TerrainWooded,
		ScanRegistrationOnly: services.ScanRegistrationRCP,
		Areas:                []services.AreaInput{area},
	}

	shells, err := services.GenerateShells(in, services.NewIDSequence())
	if err != nil {
		t.Fatalf("GenerateShells() error = %v", err)
	}
	priced, err := services.PriceShells(services.EstimateCosts(in, shells, cfg), cfg, []string{"occupied"})
	if err != nil {
		t.Fatalf("PriceShells() error = %v", err)
	}
	for _, s := range priced {
		if !s.Priced() {
			t.Errorf("%s (%s) left unpriced by the default config", s.ID, s.Category)
		}
	}
}

func TestLoadPricingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	doc := `
scanCosts:
  - buildingType: default
    perSqft: 0.1
defaultMileageRate: 0.5
personnelAllocations:
  - name: Owner
    percent: 20
profitAllocations:
  - name: Profit
    percent: 20
overhead:
  manualOverridePercent: 20
addOnServices:
  - name: georeferencing
    vendorCost: 200
    markup: 1.5
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPricingConfig(path)
	if err != nil {
		t.Fatalf("LoadPricingConfig() error = %v", err)
	}
	res := services.ResolvePricing(cfg)
	if res.OverheadSource != services.OverheadManual || res.COGSMultiplier != 2.5 {
		t.Errorf("resolution = %+v, want manual overhead and 2.5x", res)
	}
}

func TestLoadPricingConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		doc     string
		invalid bool
		substr  string
	}{
		{"unknown key", "defaultMilageRate: 0.5\n", false, "defaultMilageRate"},
		{"malformed yaml", "scanCosts: [\n", false, "decode pricing config"},
		{"zero markup", "addOnServices:\n  - name: expedited\n    vendorCost: 10\n    markup: 0\n", true, "addOnServices[0].markup"},
		{"infinite markup", "addOnServices:\n  - name: expedited\n    vendorCost: 10\n    markup: .inf\n", true, "addOnServices[0].markup"},
		{"NaN revenue", "overhead:\n  monthlyEntries:\n    - month: \"2026-01\"\n      revenue: .nan\n      overhead: 100\n", true, "overhead.monthlyEntries[0].revenue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.doc), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadPricingConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, services.ErrInvalidInput) != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidInput) = %v, want %v (%v)", !tt.invalid, tt.invalid, err)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", err, tt.substr)
			}
		})
	}

	if _, err := LoadPricingConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadPricingConfigOrDefault(t *testing.T) {
	cfg, err := LoadPricingConfigOrDefault("")
	if err != nil {
		t.Fatalf("LoadPricingConfigOrDefault(\"\") error = %v", err)
	}
	if len(cfg.ModelingCosts) == 0 {
		t.Error("expected built-in modeling rates")
	}
}
