package services

import (
	"errors"
	"math"
	"testing"
)

func TestOverheadPercent(t *testing.T) {
	tests := []struct {
		name   string
		cfg    OverheadConfig
		expect float64
	}{
		{
			name:   "no entries uses safe default",
			cfg:    OverheadConfig{},
			expect: 20,
		},
		{
			name: "default window is last three entries",
			cfg: OverheadConfig{MonthlyEntries: []MonthlyOverhead{
				{Month: "2026-01", Revenue: 10000, Overhead: 9000},
				{Month: "2026-02", Revenue: 100000, Overhead: 20000},
				{Month: "2026-03", Revenue: 100000, Overhead: 25000},
				{Month: "2026-04", Revenue: 100000, Overhead: 30000},
			}},
			expect: 25,
		},
		{
			name: "configured window",
			cfg: OverheadConfig{
				RollingMonths: 2,
				MonthlyEntries: []MonthlyOverhead{
					{Revenue: 100000, Overhead: 20000},
					{Revenue: 90000, Overhead: 30000},
					{Revenue: 110000, Overhead: 30000},
				},
			},
			expect: 30,
		},
		{
			name: "window larger than series",
			cfg: OverheadConfig{
				RollingMonths:  12,
				MonthlyEntries: []MonthlyOverhead{{Revenue: 80000, Overhead: 18000}},
			},
			expect: 22.5,
		},
		{
			name: "rounded to one decimal",
			cfg: OverheadConfig{MonthlyEntries: []MonthlyOverhead{
				{Revenue: 30000, Overhead: 10000},
			}},
			expect: 33.3,
		},
		{
			name: "zero revenue uses worst case",
			cfg: OverheadConfig{MonthlyEntries: []MonthlyOverhead{
				{Revenue: 0, Overhead: 5000},
				{Revenue: 0, Overhead: 5000},
			}},
			expect: 50,
		},
		{
			name: "half-tenth ratio rounds up",
			cfg: OverheadConfig{MonthlyEntries: []MonthlyOverhead{
				{Revenue: 33, Overhead: 4},
				{Revenue: 33, Overhead: 4},
				{Revenue: 34, Overhead: 4.25},
			}},
			expect: 12.3,
		},
		{
			name: "negative average revenue uses worst case",
			cfg: OverheadConfig{MonthlyEntries: []MonthlyOverhead{
				{Revenue: -1000, Overhead: 5000},
			}},
			expect: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverheadPercent(tt.cfg)
			if !floatClose(got, tt.expect) {
				t.Errorf("OverheadPercent() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestOverheadPercent_ManualOverrideWins(t *testing.T) {
	series := [][]MonthlyOverhead{
		nil,
		{{Revenue: 0, Overhead: 100}},
		{{Revenue: 100000, Overhead: 10000}, {Revenue: 100000, Overhead: 90000}},
	}
	for _, entries := range series {
		cfg := OverheadConfig{MonthlyEntries: entries, ManualOverridePercent: Float(17.25)}
		if got := OverheadPercent(cfg); got != 17.25 {
			t.Errorf("OverheadPercent() with override and %d entries = %v, want 17.25", len(entries), got)
		}
	}
}

func TestCOGSMultiplier(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		expect float64
	}{
		{"nothing allocated", 0, 1},
		{"half allocated", 50, 2},
		{"sixty percent", 60, 2.5},
		{"seventy percent rounds", 70, 3.33},
		{"room just above clamp", 94.9, 19.61},
		{"room exactly five", 95, 20},
		{"room below five", 97, 20},
		{"fully allocated", 100, 20},
		{"over allocated", 130, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := COGSMultiplier(tt.total)
			if !floatClose(got, tt.expect) {
				t.Errorf("COGSMultiplier(%v) = %v, want %v", tt.total, got, tt.expect)
			}
		})
	}
}

func TestCOGSMultiplier_Monotonic(t *testing.T) {
	prev := COGSMultiplier(0)
	for total := 0.5; total <= 110; total += 0.5 {
		got := COGSMultiplier(total)
		if got < prev {
			t.Fatalf("COGSMultiplier(%v) = %v decreased from %v", total, got, prev)
		}
		if got > ClampedCOGSMultiplier {
			t.Fatalf("COGSMultiplier(%v) = %v exceeds clamp", total, got)
		}
		prev = got
	}
	if prev != ClampedCOGSMultiplier {
		t.Errorf("multiplier at 110%% = %v, want clamp %v", prev, ClampedCOGSMultiplier)
	}
}

func testPricingConfig() PricingConfig {
	return PricingConfig{
		PersonnelAllocations: []Allocation{
			{Name: "Owner pay", Percent: 10},
			{Name: "Project management", Percent: 5},
		},
		ProfitAllocations: []ProfitAllocation{
			{Name: "Profit", Percent: 10},
			{Name: "Growth reserve", Percent: 5, Flexible: true},
		},
		Overhead: OverheadConfig{ManualOverridePercent: Float(20)},
	}
}

func TestResolvePricing(t *testing.T) {
	got := ResolvePricing(testPricingConfig())

	if got.OverheadSource != OverheadManual {
		t.Errorf("OverheadSource = %q, want manual", got.OverheadSource)
	}
	if !floatClose(got.PersonnelPercent, 15) || !floatClose(got.ProfitPercent, 15) {
		t.Errorf("personnel/profit = %v/%v, want 15/15", got.PersonnelPercent, got.ProfitPercent)
	}
	if !floatClose(got.FlexibleProfitPercent, 5) {
		t.Errorf("FlexibleProfitPercent = %v, want 5", got.FlexibleProfitPercent)
	}
	if !floatClose(got.TotalAllocatedPercent, 50) {
		t.Errorf("TotalAllocatedPercent = %v, want 50", got.TotalAllocatedPercent)
	}
	if !floatClose(got.RoomPercent, 50) || !floatClose(got.COGSMultiplier, 2) || got.Clamped {
		t.Errorf("room/multiplier/clamped = %v/%v/%v, want 50/2/false", got.RoomPercent, got.COGSMultiplier, got.Clamped)
	}
	if !floatClose(TotalAllocatedPercent(testPricingConfig()), 50) {
		t.Errorf("TotalAllocatedPercent() disagrees with ResolvePricing()")
	}
}

func TestResolvePricing_Clamped(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Overhead.ManualOverridePercent = Float(65)

	got := ResolvePricing(cfg)
	if !got.Clamped || got.COGSMultiplier != 20 {
		t.Errorf("expected clamp at 20, got %+v", got)
	}
	if !floatClose(got.RoomPercent, 5) {
		t.Errorf("RoomPercent = %v, want 5", got.RoomPercent)
	}
}

func TestResolvePricing_NoOverheadData(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Overhead = OverheadConfig{}

	got := ResolvePricing(cfg)
	if got.OverheadSource != OverheadNoData || got.OverheadPercent != DefaultOverheadPercent {
		t.Errorf("overhead = %v (%s), want default 20", got.OverheadPercent, got.OverheadSource)
	}
}

func TestValidatePricingConfig(t *testing.T) {
	if err := ValidatePricingConfig(testPricingConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := testPricingConfig()
	cfg.AddOnServices = []AddOnService{{Name: "georeferencing", VendorCost: 300, Markup: 0}}
	cfg.PersonnelAllocations[0].Percent = 140

	err := ValidatePricingConfig(cfg)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, field := range []string{"addOnServices[0].markup", "personnelAllocations[0].percent"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("expected field %q in %v", field, verr.Fields)
		}
	}
}

func TestValidatePricingConfig_NonFinite(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PricingConfig)
		field  string
	}{
		{
			name: "NaN monthly revenue",
			mutate: func(cfg *PricingConfig) {
				cfg.Overhead.MonthlyEntries = []MonthlyOverhead{{Month: "2026-01", Revenue: math.NaN(), Overhead: 100}}
			},
			field: "overhead.monthlyEntries[0].revenue",
		},
		{
			name: "infinite monthly overhead",
			mutate: func(cfg *PricingConfig) {
				cfg.Overhead.MonthlyEntries = []MonthlyOverhead{{Month: "2026-01", Revenue: 1000, Overhead: math.Inf(1)}}
			},
			field: "overhead.monthlyEntries[0].overhead",
		},
		{
			name: "infinite markup",
			mutate: func(cfg *PricingConfig) {
				cfg.AddOnServices = []AddOnService{{Name: "georeferencing", VendorCost: 300, Markup: math.Inf(1)}}
			},
			field: "addOnServices[0].markup",
		},
		{
			name:   "infinite mileage rate",
			mutate: func(cfg *PricingConfig) { cfg.DefaultMileageRate = math.Inf(1) },
			field:  "defaultMileageRate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testPricingConfig()
			tt.mutate(&cfg)

			var verr *ValidationError
			if err := ValidatePricingConfig(cfg); !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected field %q in %v", tt.field, verr.Fields)
			}
		})
	}
}
