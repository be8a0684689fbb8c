package services

import (
	"github.com/shopspring/decimal"
)

// Fallbacks used when the overhead series cannot produce a sane figure.
const (
	DefaultRollingMonths         = 3
	DefaultOverheadPercent       = 20.0
	NoRevenueOverheadPercent     = 50.0
	MultiplierClampRoomPercent   = 5.0
	ClampedCOGSMultiplier        = 20.0
	DefaultScanRateKey           = "default"
	DefaultMinimumScanSampleSize = 5
)

// PricingConfig is the full profit-first pricing configuration.
type PricingConfig struct {
	ScanCosts            []ScanCostRate         `json:"scanCosts" yaml:"scanCosts" validate:"dive"`
	ModelingCosts        []ModelingCostRate     `json:"modelingCosts" yaml:"modelingCosts" validate:"dive"`
	DefaultMileageRate   float64                `json:"defaultMileageRate" yaml:"defaultMileageRate" validate:"finite,gte=0"`
	PersonnelAllocations []Allocation           `json:"personnelAllocations" yaml:"personnelAllocations" validate:"dive"`
	ProfitAllocations    []ProfitAllocation     `json:"profitAllocations" yaml:"profitAllocations" validate:"dive"`
	Overhead             OverheadConfig         `json:"overhead" yaml:"overhead"`
	AddOnServices        []AddOnService         `json:"addOnServices" yaml:"addOnServices" validate:"dive"`
	SituationalFactors   []SituationalFactor    `json:"situationalMultipliers" yaml:"situationalMultipliers" validate:"dive"`
	ScanIntelligence     ScanIntelligenceConfig `json:"scanIntelligence" yaml:"scanIntelligence"`
}

// ScanCostRate is the field cost per square foot for a building type.
// The entry keyed "default" is used when no building type matches.
type ScanCostRate struct {
	BuildingType string  `json:"buildingType" yaml:"buildingType" validate:"required"`
	PerSqft      float64 `json:"perSqft" yaml:"perSqft" validate:"finite,gte=0"`
}

// ModelingCostRate is the production cost per square foot for a discipline
// at a detail tier. CAD rates use the CAD package name as the tier.
type ModelingCostRate struct {
	Discipline Discipline `json:"discipline" yaml:"discipline" validate:"required"`
	Tier       string     `json:"tier" yaml:"tier" validate:"required"`
	PerSqft    float64    `json:"perSqft" yaml:"perSqft" validate:"finite,gte=0"`
}

// Allocation is a fixed share of revenue committed to personnel.
type Allocation struct {
	Name    string  `json:"name" yaml:"name" validate:"required"`
	Percent float64 `json:"percent" yaml:"percent" validate:"finite,gte=0,lte=100"`
}

// ProfitAllocation is a share of revenue reserved as profit. Flexible
// allocations may be negotiated down on a specific deal.
type ProfitAllocation struct {
	Name     string  `json:"name" yaml:"name" validate:"required"`
	Percent  float64 `json:"percent" yaml:"percent" validate:"finite,gte=0,lte=100"`
	Flexible bool    `json:"flexible" yaml:"flexible"`
}

// OverheadConfig drives the overhead percentage.
type OverheadConfig struct {
	MonthlyEntries        []MonthlyOverhead `json:"monthlyEntries" yaml:"monthlyEntries" validate:"dive"`
	RollingMonths         int               `json:"rollingMonths" yaml:"rollingMonths" validate:"gte=0"`
	ManualOverridePercent *float64          `json:"manualOverridePercent,omitempty" yaml:"manualOverridePercent,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
}

// MonthlyOverhead is one month of revenue and overhead, in chronological order.
type MonthlyOverhead struct {
	Month    string  `json:"month" yaml:"month"`
	Revenue  float64 `json:"revenue" yaml:"revenue" validate:"finite"`
	Overhead float64 `json:"overhead" yaml:"overhead" validate:"finite,gte=0"`
}

// AddOnService is a pass-through service priced at vendor cost times markup.
// Name matches the line-item category it prices (e.g. "georeferencing").
type AddOnService struct {
	Name       string  `json:"name" yaml:"name" validate:"required"`
	VendorCost float64 `json:"vendorCost" yaml:"vendorCost" validate:"finite,gte=0"`
	Markup     float64 `json:"markup" yaml:"markup" validate:"finite,gt=0"`
}

// SituationalFactor scales a quote's prices when its trigger applies.
type SituationalFactor struct {
	Name    string  `json:"name" yaml:"name" validate:"required"`
	Trigger string  `json:"trigger" yaml:"trigger"`
	Factor  float64 `json:"factor" yaml:"factor" validate:"finite,gt=0"`
}

// ScanIntelligenceConfig selects which historical scans feed the metrics.
type ScanIntelligenceConfig struct {
	RollingMonths     int `json:"rollingMonths" yaml:"rollingMonths" validate:"gte=0"`
	MinimumSampleSize int `json:"minimumSampleSize" yaml:"minimumSampleSize" validate:"gte=0"`
}

// ValidatePricingConfig checks the configuration's structural constraints.
func ValidatePricingConfig(cfg PricingConfig) error {
	verr := &ValidationError{}
	collectStructErrors(cfg, verr)
	return verr.orNil()
}

var clampRoom = decimal.NewFromFloat(MultiplierClampRoomPercent)

// OverheadSource records which branch produced the overhead figure.
type OverheadSource string

const (
	OverheadManual    OverheadSource = "manual"
	OverheadRolling   OverheadSource = "rolling"
	OverheadNoData    OverheadSource = "default_no_data"
	OverheadNoRevenue OverheadSource = "default_no_revenue"
)

// OverheadPercent returns the overhead share of revenue, in percent.
func OverheadPercent(cfg OverheadConfig) float64 {
	pct, _ := resolveOverhead(cfg)
	return pct
}

func resolveOverhead(cfg OverheadConfig) (float64, OverheadSource) {
	if cfg.ManualOverridePercent != nil {
		return *cfg.ManualOverridePercent, OverheadManual
	}
	return rollingOverhead(cfg.MonthlyEntries, cfg.RollingMonths)
}

// rollingOverhead takes the last window entries and returns
// Σoverhead/Σrevenue as a percent rounded to one decimal. Dividing the sums
// equals dividing the two averages and needs only one inexact division.
func rollingOverhead(entries []MonthlyOverhead, window int) (float64, OverheadSource) {
	if len(entries) == 0 {
		return DefaultOverheadPercent, OverheadNoData
	}
	if window <= 0 {
		window = DefaultRollingMonths
	}
	if window < len(entries) {
		entries = entries[len(entries)-window:]
	}

	revenue := decimal.Zero
	overhead := decimal.Zero
	for _, e := range entries {
		revenue = revenue.Add(decimal.NewFromFloat(e.Revenue))
		overhead = overhead.Add(decimal.NewFromFloat(e.Overhead))
	}

	// A non-positive sum means a non-positive average revenue.
	if !revenue.IsPositive() {
		return NoRevenueOverheadPercent, OverheadNoRevenue
	}
	return overhead.Mul(hundred).Div(revenue).Round(1).InexactFloat64(), OverheadRolling
}

// TotalAllocatedPercent is the share of revenue committed before cost of
// goods: personnel plus profit allocations plus overhead.
func TotalAllocatedPercent(cfg PricingConfig) float64 {
	return ResolvePricing(cfg).TotalAllocatedPercent
}

// COGSMultiplier converts a total allocation into the factor applied to raw
// cost. Once the remaining room is 5 points or less the factor is clamped to 20.
func COGSMultiplier(totalAllocatedPercent float64) float64 {
	room := hundred.Sub(decimal.NewFromFloat(totalAllocatedPercent))
	if room.LessThanOrEqual(clampRoom) {
		return ClampedCOGSMultiplier
	}
	return hundred.Div(room).Round(2).InexactFloat64()
}

// PricingResolution bundles every figure derived from a PricingConfig.
type PricingResolution struct {
	OverheadPercent       float64        `json:"overheadPercent"`
	OverheadSource        OverheadSource `json:"overheadSource"`
	PersonnelPercent      float64        `json:"personnelPercent"`
	ProfitPercent         float64        `json:"profitPercent"`
	FlexibleProfitPercent float64        `json:"flexibleProfitPercent"`
	TotalAllocatedPercent float64        `json:"totalAllocatedPercent"`
	RoomPercent           float64        `json:"roomPercent"`
	COGSMultiplier        float64        `json:"cogsMultiplier"`
	Clamped               bool           `json:"clamped"`
}

// ResolvePricing computes overhead, allocation totals and the COGS multiplier.
func ResolvePricing(cfg PricingConfig) PricingResolution {
	overhead, source := resolveOverhead(cfg.Overhead)

	personnel := decimal.Zero
	for _, a := range cfg.PersonnelAllocations {
		personnel = personnel.Add(decimal.NewFromFloat(a.Percent))
	}
	profit := decimal.Zero
	flexible := decimal.Zero
	for _, a := range cfg.ProfitAllocations {
		p := decimal.NewFromFloat(a.Percent)
		profit = profit.Add(p)
		if a.Flexible {
			flexible = flexible.Add(p)
		}
	}

	total := personnel.Add(profit).Add(decimal.NewFromFloat(overhead))
	room := hundred.Sub(total)
	totalF := total.InexactFloat64()

	return PricingResolution{
		OverheadPercent:       overhead,
		OverheadSource:        source,
		PersonnelPercent:      personnel.InexactFloat64(),
		ProfitPercent:         profit.InexactFloat64(),
		FlexibleProfitPercent: flexible.InexactFloat64(),
		TotalAllocatedPercent: totalF,
		RoomPercent:           room.InexactFloat64(),
		COGSMultiplier:        COGSMultiplier(totalF),
		Clamped:               room.LessThanOrEqual(clampRoom),
	}
}
