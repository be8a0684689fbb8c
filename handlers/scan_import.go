package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"scanquote/collections"
	"scanquote/config"
	"scanquote/services"
)

const (
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportFileSize = 10 << 20
)

// scanImportResponse is the body of POST /scan-records/import.
type scanImportResponse struct {
	Error      string                     `json:"error,omitempty"`
	Validation *services.ScanImportResult `json:"validation"`
	Import     *collections.ImportResult  `json:"import,omitempty"`
}

func writeXLSX(e *core.RequestEvent, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", xlsxContentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(data)
	return err
}

// HandleScanImportTemplate downloads the blank scan history import workbook.
// Route: GET /scan-records/template
func HandleScanImportTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateScanImportTemplate()
		if err != nil {
			return respondError(e, "HandleScanImportTemplate", err)
		}
		return writeXLSX(e, "Scan_Import_Template.xlsx", data)
	}
}

// HandleScanImport receives a .csv or .xlsx upload of completed scans,
// validates every row and, unless ?dryRun=true, inserts them. A file with any
// invalid row is rejected as a whole.
// Route: POST /scan-records/import
func HandleScanImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxImportFileSize); err != nil {
			return respondBadRequest(e, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return respondBadRequest(e, "Please select a file to upload")
		}
		defer file.Close()

		parsed, err := services.ParseScanImportFile(file, header.Filename)
		if err != nil {
			return respondBadRequest(e, err.Error())
		}

		if parsed.ErrorRows > 0 {
			return e.JSON(http.StatusBadRequest, scanImportResponse{
				Error:      fmt.Sprintf("%d row(s) failed validation", parsed.ErrorRows),
				Validation: parsed,
			})
		}
		if e.Request.URL.Query().Get("dryRun") == "true" {
			return e.JSON(http.StatusOK, scanImportResponse{Validation: parsed})
		}

		result, err := collections.ImportScanRecords(app, parsed)
		if err != nil {
			return respondError(e, "HandleScanImport", err)
		}

		status := http.StatusCreated
		if result.Failed > 0 {
			status = http.StatusMultiStatus
			config.GetLogger().Warnf("scan import: %d of %d row(s) rolled back", result.Failed, result.TotalRows)
		}
		return e.JSON(status, scanImportResponse{Validation: parsed, Import: result})
	}
}

// HandleScanImportErrorReport turns posted row errors into a downloadable workbook.
// Route: POST /scan-records/import/errors
func HandleScanImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rowErrors []services.ImportRowError
		if err := json.NewDecoder(e.Request.Body).Decode(&rowErrors); err != nil {
			return respondBadRequest(e, "Invalid error data")
		}

		data, err := services.GenerateImportErrorReport(rowErrors)
		if err != nil {
			return respondError(e, "HandleScanImportErrorReport", err)
		}
		return writeXLSX(e, fmt.Sprintf("Scan_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02")), data)
	}
}
