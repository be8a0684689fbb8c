package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"scanquote/collections"
	"scanquote/services"
	"scanquote/testhelpers"
)

func TestHandleQuoteExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "Harbor/Office", testhelpers.TestProjectInput())
	collections.SetQuoteLineItems(quote, []services.LineItemShell{
		{ID: "li-001", Category: services.CategoryArchitecture, Description: "Architecture", Quantity: 10000,
			Unit: services.UnitSqft, Cost: services.Float(2500), Price: services.Float(5000)},
	})
	if err := app.Save(quote); err != nil {
		t.Fatalf("save quote: %v", err)
	}

	rec := serve(t, app, HandleQuoteExportExcel(app),
		newJSONRequest(http.MethodGet, "/quotes/"+quote.Id+"/export/excel", "", map[string]string{"id": quote.Id}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="Harbor_Office.xlsx"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not valid Excel: %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetList()[0]
	if got, _ := f.GetCellValue(sheet, "H6"); got != "$5,000.00" {
		t.Errorf("H6 = %q, want $5,000.00", got)
	}
}

func TestHandleQuoteExportExcel_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := serve(t, app, HandleQuoteExportExcel(app),
		newJSONRequest(http.MethodGet, "/quotes/missing/export/excel", "", map[string]string{"id": "missing"}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := sanitizeFilename(`a/b\c:d*e?f"g<h>i|j`); got != "a_b_c_d_e_f_g_h_i_j" {
		t.Errorf("sanitizeFilename() = %q", got)
	}
}
