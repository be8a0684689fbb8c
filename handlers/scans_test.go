package handlers

import (
	"net/http"
	"testing"
	"time"

	"scanquote/services"
	"scanquote/testhelpers"
)

func TestHandleScanRecordCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	body := `{"buildingType": "Office", "squareFootage": 24000, "floorCount": 3, "scanDays": 2,
		"scanMinutes": 720, "scanPositions": 140, "deliverableType": "Revit", "complexity": "high",
		"completedOn": "2026-09-01T00:00:00Z"}`

	rec := serve(t, app, HandleScanRecordCreate(app), newJSONRequest(http.MethodPost, "/scan-records", body, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID     string              `json:"id"`
		Record services.ScanRecord `json:"record"`
	}
	decodeBody(t, rec, &resp)
	if resp.Record.Complexity != services.ComplexityHigh {
		t.Errorf("Complexity = %q, want High", resp.Record.Complexity)
	}

	stored, err := app.FindRecordById("scan_records", resp.ID)
	if err != nil {
		t.Fatalf("scan record not stored: %v", err)
	}
	if stored.GetInt("scan_positions") != 140 {
		t.Errorf("scan_positions = %d, want 140", stored.GetInt("scan_positions"))
	}
}

func TestHandleScanRecordCreate_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing building type", `{"squareFootage": 100}`, "buildingType"},
		{"zero square footage", `{"buildingType": "Office"}`, "squareFootage"},
		{"unknown complexity", `{"buildingType": "Office", "squareFootage": 100, "complexity": "extreme"}`, "complexity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			rec := serve(t, app, HandleScanRecordCreate(app), newJSONRequest(http.MethodPost, "/scan-records", tt.body, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var body errorResponse
			decodeBody(t, rec, &body)
			if _, ok := body.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want key %q", body.Fields, tt.field)
			}
		})
	}
}

func TestHandleScanMetrics_UsesRollingWindow(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testhelpers.TestPricingConfig()
	cfg.ScanIntelligence.RollingMonths = 6
	testhelpers.CreateTestPricingConfig(t, app, "Windowed", cfg)

	now := time.Now().UTC()
	testhelpers.CreateTestScanRecord(t, app, "Office", 20000, 2, now.AddDate(0, -1, 0))
	testhelpers.CreateTestScanRecord(t, app, "Office", 90000, 1, now.AddDate(-2, 0, 0))

	rec := serve(t, app, HandleScanMetrics(app), newJSONRequest(http.MethodGet, "/scan-metrics", "", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var m services.ScanMetrics
	decodeBody(t, rec, &m)
	if m.RecordCount != 1 || m.AvgSqftPerDay != 10000 {
		t.Errorf("metrics = %+v, want one record at 10000 sqft/day", m.GroupMetrics)
	}
}

func TestHandleScanMetrics_NoConfigIncludesAll(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	now := time.Now().UTC()
	testhelpers.CreateTestScanRecord(t, app, "Office", 20000, 2, now.AddDate(0, -1, 0))
	testhelpers.CreateTestScanRecord(t, app, "Warehouse", 40000, 2, now.AddDate(-3, 0, 0))

	rec := serve(t, app, HandleScanMetrics(app), newJSONRequest(http.MethodGet, "/scan-metrics", "", nil))

	var m services.ScanMetrics
	decodeBody(t, rec, &m)
	if m.RecordCount != 2 || len(m.ByBuildingType) != 2 {
		t.Errorf("metrics = %+v, want both records", m)
	}
}
