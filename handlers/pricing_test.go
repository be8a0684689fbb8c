package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"scanquote/collections"
	"scanquote/testhelpers"
)

func TestHandlePricingActive(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestPricingConfig(t, app, "Test pricing", testhelpers.TestPricingConfig())

	rec := serve(t, app, HandlePricingActive(app), newJSONRequest(http.MethodGet, "/pricing/active", "", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var view PricingView
	decodeBody(t, rec, &view)
	if view.Name != "Test pricing" {
		t.Errorf("Name = %q", view.Name)
	}
	if view.Resolution.COGSMultiplier != 2 || view.Resolution.OverheadSource != "manual" {
		t.Errorf("Resolution = %+v", view.Resolution)
	}
}

func TestHandlePricingActive_NoConfig(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := serve(t, app, HandlePricingActive(app), newJSONRequest(http.MethodGet, "/pricing/active", "", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandlePricingSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestPricingConfig(t, app, "Old", testhelpers.TestPricingConfig())

	body := `{"name": "Lean", "config": {
		"personnelAllocations": [{"name": "Owner", "percent": 20}],
		"profitAllocations": [{"name": "Profit", "percent": 20}],
		"overhead": {"manualOverridePercent": 20}
	}}`
	rec := serve(t, app, HandlePricingSave(app), newJSONRequest(http.MethodPost, "/pricing", body, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var view PricingView
	decodeBody(t, rec, &view)
	if view.Resolution.COGSMultiplier != 2.5 {
		t.Errorf("COGSMultiplier = %v, want 2.5", view.Resolution.COGSMultiplier)
	}

	_, active, err := collections.ActivePricingConfig(app)
	if err != nil {
		t.Fatalf("ActivePricingConfig() error: %v", err)
	}
	if active.GetString("name") != "Lean" {
		t.Errorf("active config = %q, want Lean", active.GetString("name"))
	}
}

func TestHandlePricingSave_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	body := `{"name": "Broken", "config": {"addOnServices": [{"name": "expedited", "vendorCost": 10, "markup": 0}]}}`

	rec := serve(t, app, HandlePricingSave(app), newJSONRequest(http.MethodPost, "/pricing", body, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), "addOnServices[0].markup")
}

func TestHandlePricingContext(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestPricingConfig(t, app, "Test pricing", testhelpers.TestPricingConfig())
	recent := time.Now().UTC().AddDate(0, -1, 0)
	testhelpers.CreateTestScanRecord(t, app, "Office", 20000, 2, recent)

	rec := serve(t, app, HandlePricingContext(app), newJSONRequest(http.MethodGet, "/pricing/context", "", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	for _, want := range []string{"Pricing model:", "COGS multiplier: 2.00x", "1 completed scans", "Sample is small (1 < 3)"} {
		if !strings.Contains(body["context"], want) {
			t.Errorf("context missing %q:\n%s", want, body["context"])
		}
	}
}
