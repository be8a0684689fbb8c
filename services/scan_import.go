package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ScanImportField describes one column in the scan history import template.
type ScanImportField struct {
	Key          string // JSON name of the ScanRecord field
	Label        string // header shown in Excel
	Description  string
	FormatRule   string
	ExampleValue string
	Required     bool
}

// ScanImportFields returns the ordered list of columns for scan history imports.
func ScanImportFields() []ScanImportField {
	return []ScanImportField{
		{Key: "buildingType", Label: "Building Type", Description: "Building category used for rate lookups", ExampleValue: "Office", Required: true},
		{Key: "squareFootage", Label: "Square Footage", Description: "Area scanned", FormatRule: "Number greater than 0", ExampleValue: "24000", Required: true},
		{Key: "floorCount", Label: "Floors", Description: "Number of floors scanned", FormatRule: "Whole number", ExampleValue: "3"},
		{Key: "scanDays", Label: "Scan Days", Description: "Days on site scanning", FormatRule: "Number", ExampleValue: "2", Required: true},
		{Key: "scanMinutes", Label: "Scan Minutes", Description: "Total scanner run time", FormatRule: "Number", ExampleValue: "720"},
		{Key: "travelDays", Label: "Travel Days", Description: "Days spent travelling", FormatRule: "Number", ExampleValue: "1"},
		{Key: "scanPositions", Label: "Scan Positions", Description: "Scanner setups captured", FormatRule: "Whole number", ExampleValue: "140"},
		{Key: "deliverableType", Label: "Deliverable", Description: "Deliverable produced from the scan", ExampleValue: "Revit"},
		{Key: "complexity", Label: "Complexity", Description: "Site complexity (select from dropdown)", FormatRule: "Low, Medium or High", ExampleValue: ComplexityMedium},
		{Key: "completedOn", Label: "Completed On", Description: "Date the scan was completed", FormatRule: "YYYY-MM-DD", ExampleValue: "2026-09-01", Required: true},
	}
}

// ImportRowError is a problem with one field on one uploaded row.
// Row is 1-indexed and counts the header, so it matches the spreadsheet.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ScanImportResult is returned after parsing and validating an uploaded file.
// Records and RowNumbers only hold rows without errors, in file order.
type ScanImportResult struct {
	TotalRows  int              `json:"totalRows"`
	ValidRows  int              `json:"validRows"`
	ErrorRows  int              `json:"errorRows"`
	Errors     []ImportRowError `json:"errors"`
	Records    []ScanRecord     `json:"-"`
	RowNumbers []int            `json:"-"`
}

// completedOnLayouts are the date spellings accepted in the Completed On column.
var completedOnLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"1/2/2006",
	"01-02-06",
	"1/2/06",
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to field keys.
// Returns one key per column ("" when unrecognised) and the unrecognised headers.
func mapHeadersToFields(headers []string, fields []ScanImportField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[strings.ToLower(f.Key)] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else if norm != "" {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ParseScanImportFile parses an uploaded .csv or .xlsx file of completed scans
// and validates every row. A file-level problem (format, missing columns) is
// returned as an error; row problems are collected in the result.
func ParseScanImportFile(file io.Reader, fileName string) (*ScanImportResult, error) {
	fields := ScanImportFields()

	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToFields(headers, fields)
	present := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		present[k] = true
	}
	var missing []string
	for _, f := range fields {
		if f.Required && !present[f.Key] {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}

	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ScanImportResult{}
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row

		rowData := make(map[string]string, len(columnKeys))
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[colIdx])
			rowData[key] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		result.TotalRows++

		sr, rowErrors := scanRecordFromRow(rowNum, rowData, fields, keyToLabel)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Records = append(result.Records, sr)
		result.RowNumbers = append(result.RowNumbers, rowNum)
	}
	result.ValidRows = len(result.Records)
	if result.Errors == nil {
		result.Errors = []ImportRowError{}
	}

	return result, nil
}

// scanRecordFromRow converts one row into a ScanRecord, collecting every
// problem on the row rather than stopping at the first.
func scanRecordFromRow(rowNum int, data map[string]string, fields []ScanImportField, keyToLabel map[string]string) (ScanRecord, []ImportRowError) {
	var errs []ImportRowError
	fail := func(key, msg string) {
		label := keyToLabel[key]
		if label == "" {
			label = key
		}
		errs = append(errs, ImportRowError{Row: rowNum, Field: label, Message: label + " " + msg})
	}

	for _, f := range fields {
		if f.Required && data[f.Key] == "" {
			fail(f.Key, "is required")
		}
	}

	number := func(key string) float64 {
		v := strings.ReplaceAll(data[key], ",", "")
		if v == "" {
			return 0
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || !isFinite(n) {
			fail(key, "must be a number")
			return 0
		}
		return n
	}
	whole := func(key string) int {
		n := number(key)
		if n != float64(int(n)) {
			fail(key, "must be a whole number")
		}
		return int(n)
	}

	sr := ScanRecord{
		BuildingType:    data["buildingType"],
		SquareFootage:   number("squareFootage"),
		FloorCount:      whole("floorCount"),
		ScanDays:        number("scanDays"),
		ScanMinutes:     number("scanMinutes"),
		TravelDays:      number("travelDays"),
		ScanPositions:   whole("scanPositions"),
		DeliverableType: data["deliverableType"],
		Complexity:      data["complexity"],
	}

	if v := data["completedOn"]; v != "" {
		t, ok := parseCompletedOn(v)
		if !ok {
			fail("completedOn", "must be a date in YYYY-MM-DD format")
		}
		sr.CompletedOn = t
	}

	// Format checks only run once the row is well-formed, so a bad number
	// is not reported twice.
	if len(errs) == 0 {
		var verr *ValidationError
		if err := ValidateScanRecord(sr); errors.As(err, &verr) {
			keys := make([]string, 0, len(verr.Fields))
			for k := range verr.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fail(k, verr.Fields[k])
			}
		}
	}
	if len(errs) > 0 {
		return ScanRecord{}, errs
	}

	sr.Complexity = NormalizeComplexity(sr.Complexity)
	return sr, nil
}

func parseCompletedOn(v string) (time.Time, bool) {
	for _, layout := range completedOnLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ValidateScanRecord checks the fields a stored scan must carry.
// Every numeric field must be finite; counts and durations may be zero.
func ValidateScanRecord(sr ScanRecord) error {
	verr := &ValidationError{Fields: map[string]string{}}
	if strings.TrimSpace(sr.BuildingType) == "" {
		verr.Fields["buildingType"] = "is required"
	}
	switch {
	case !isFinite(sr.SquareFootage):
		verr.Fields["squareFootage"] = "must be a finite number"
	case sr.SquareFootage <= 0:
		verr.Fields["squareFootage"] = "must be greater than 0"
	}

	durations := []struct {
		key string
		val float64
	}{
		{"scanDays", sr.ScanDays},
		{"scanMinutes", sr.ScanMinutes},
		{"travelDays", sr.TravelDays},
		{"floorCount", float64(sr.FloorCount)},
		{"scanPositions", float64(sr.ScanPositions)},
	}
	for _, d := range durations {
		switch {
		case !isFinite(d.val):
			verr.Fields[d.key] = "must be a finite number"
		case d.val < 0:
			verr.Fields[d.key] = "must be zero or greater"
		}
	}

	if sr.Complexity != "" && ComplexityScore(sr.Complexity) == 0 {
		verr.Fields["complexity"] = "must be one of Low, Medium, High"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// NormalizeComplexity returns the stored spelling of a complexity tier, or ""
// when the tier is unknown.
func NormalizeComplexity(tier string) string {
	switch ComplexityScore(tier) {
	case 1:
		return ComplexityLow
	case 2:
		return ComplexityMedium
	case 3:
		return ComplexityHigh
	}
	return ""
}

// GenerateImportErrorReport creates a downloadable .xlsx file from row errors.
func GenerateImportErrorReport(errs []ImportRowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
