package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Complexity tiers of a completed scan job.
const (
	ComplexityLow    = "Low"
	ComplexityMedium = "Medium"
	ComplexityHigh   = "High"
)

// ScanRecord is one completed scanning job.
type ScanRecord struct {
	BuildingType    string    `json:"buildingType"`
	SquareFootage   float64   `json:"squareFootage"`
	FloorCount      int       `json:"floorCount"`
	ScanDays        float64   `json:"scanDays"`
	ScanMinutes     float64   `json:"scanMinutes"`
	TravelDays      float64   `json:"travelDays"`
	ScanPositions   int       `json:"scanPositions"`
	DeliverableType string    `json:"deliverableType"`
	Complexity      string    `json:"complexity"`
	CompletedOn     time.Time `json:"completedOn"`
}

// GroupMetrics are throughput ratios for a subset of records.
type GroupMetrics struct {
	RecordCount           int     `json:"recordCount"`
	AvgSqftPerDay         float64 `json:"avgSqftPerDay"`
	AvgPositionsPerDay    float64 `json:"avgPositionsPerDay"`
	AvgMinutesPerPosition float64 `json:"avgMinutesPerPosition"`
}

// BuildingTypeMetrics adds the mean complexity score (Low=1, Medium=2, High=3).
type BuildingTypeMetrics struct {
	GroupMetrics
	AvgComplexity float64 `json:"avgComplexity"`
}

// ScanMetrics summarises historical scan performance.
type ScanMetrics struct {
	GroupMetrics
	AvgTravelDays  float64                        `json:"avgTravelDays"`
	AvgFloors      float64                        `json:"avgFloors"`
	ByBuildingType map[string]BuildingTypeMetrics `json:"byBuildingType"`
	ByDeliverable  map[string]GroupMetrics        `json:"byDeliverable"`
}

// scanSums accumulates exact decimal sums so the result does not depend on
// the order records are visited in.
type scanSums struct {
	count       int
	sqft        decimal.Decimal
	days        decimal.Decimal
	minutes     decimal.Decimal
	positions   decimal.Decimal
	travel      decimal.Decimal
	floors      decimal.Decimal
	complexity  decimal.Decimal
	complexityN int
}

func newScanSums() *scanSums {
	return &scanSums{
		sqft:       decimal.Zero,
		days:       decimal.Zero,
		minutes:    decimal.Zero,
		positions:  decimal.Zero,
		travel:     decimal.Zero,
		floors:     decimal.Zero,
		complexity: decimal.Zero,
	}
}

func (s *scanSums) add(r ScanRecord) {
	s.count++
	s.sqft = s.sqft.Add(decimal.NewFromFloat(r.SquareFootage))
	s.days = s.days.Add(decimal.NewFromFloat(r.ScanDays))
	s.minutes = s.minutes.Add(decimal.NewFromFloat(r.ScanMinutes))
	s.positions = s.positions.Add(decimal.NewFromInt(int64(r.ScanPositions)))
	s.travel = s.travel.Add(decimal.NewFromFloat(r.TravelDays))
	s.floors = s.floors.Add(decimal.NewFromInt(int64(r.FloorCount)))
	if score := ComplexityScore(r.Complexity); score > 0 {
		s.complexity = s.complexity.Add(decimal.NewFromInt(int64(score)))
		s.complexityN++
	}
}

func (s *scanSums) group() GroupMetrics {
	return GroupMetrics{
		RecordCount:           s.count,
		AvgSqftPerDay:         safeRatio(s.sqft, s.days),
		AvgPositionsPerDay:    safeRatio(s.positions, s.days),
		AvgMinutesPerPosition: safeRatio(s.minutes, s.positions),
	}
}

// safeRatio returns num/den, or 0 when den is zero.
func safeRatio(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return num.Div(den).InexactFloat64()
}

// ComplexityScore maps a complexity tier to 1..3; unknown tiers score 0.
func ComplexityScore(tier string) int {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "low":
		return 1
	case "medium":
		return 2
	case "high":
		return 3
	}
	return 0
}

// CalcScanMetrics aggregates historical scan records. Every ratio is a sum
// of numerators over a sum of denominators, guarded to 0 when the denominator is 0.
func CalcScanMetrics(records []ScanRecord) ScanMetrics {
	overall := newScanSums()
	byType := make(map[string]*scanSums)
	byDeliverable := make(map[string]*scanSums)

	for _, r := range records {
		overall.add(r)

		t := strings.TrimSpace(r.BuildingType)
		if byType[t] == nil {
			byType[t] = newScanSums()
		}
		byType[t].add(r)

		d := strings.TrimSpace(r.DeliverableType)
		if byDeliverable[d] == nil {
			byDeliverable[d] = newScanSums()
		}
		byDeliverable[d].add(r)
	}

	n := decimal.NewFromInt(int64(overall.count))
	metrics := ScanMetrics{
		GroupMetrics:   overall.group(),
		AvgTravelDays:  safeRatio(overall.travel, n),
		AvgFloors:      safeRatio(overall.floors, n),
		ByBuildingType: make(map[string]BuildingTypeMetrics, len(byType)),
		ByDeliverable:  make(map[string]GroupMetrics, len(byDeliverable)),
	}
	for k, s := range byType {
		metrics.ByBuildingType[k] = BuildingTypeMetrics{
			GroupMetrics:  s.group(),
			AvgComplexity: safeRatio(s.complexity, decimal.NewFromInt(int64(s.complexityN))),
		}
	}
	for k, s := range byDeliverable {
		metrics.ByDeliverable[k] = s.group()
	}
	return metrics
}

// FilterScanRecords keeps records completed within the configured rolling
// window ending at now. A zero window keeps everything.
func FilterScanRecords(records []ScanRecord, cfg ScanIntelligenceConfig, now time.Time) []ScanRecord {
	if cfg.RollingMonths <= 0 {
		return records
	}
	cutoff := now.AddDate(0, -cfg.RollingMonths, 0)
	out := make([]ScanRecord, 0, len(records))
	for _, r := range records {
		if !r.CompletedOn.Before(cutoff) && !r.CompletedOn.After(now) {
			out = append(out, r)
		}
	}
	return out
}

// EstimateScanDays projects field days for an area using the building type's
// throughput, falling back to the overall rate. Returns 0 when no rate is known.
func EstimateScanDays(m ScanMetrics, buildingType string, sqft float64) float64 {
	rate := m.AvgSqftPerDay
	if g, ok := m.ByBuildingType[strings.TrimSpace(buildingType)]; ok && g.AvgSqftPerDay > 0 {
		rate = g.AvgSqftPerDay
	}
	if rate <= 0 {
		return 0
	}
	return decimal.NewFromFloat(sqft).Div(decimal.NewFromFloat(rate)).Round(1).InexactFloat64()
}
