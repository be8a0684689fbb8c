package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// BuildPricingContext renders the pricing resolution and scan metrics as a
// short prose block for the assistant feature.
func BuildPricingContext(res PricingResolution, m ScanMetrics, sc ScanIntelligenceConfig) string {
	var b strings.Builder

	b.WriteString("Pricing model:\n")
	fmt.Fprintf(&b, "- Overhead is %.1f%% of revenue (%s).\n", res.OverheadPercent, overheadSourceLabel(res.OverheadSource))
	fmt.Fprintf(&b, "- Personnel allocations take %.1f%% and profit allocations take %.1f%% (%.1f%% flexible).\n",
		res.PersonnelPercent, res.ProfitPercent, res.FlexibleProfitPercent)
	fmt.Fprintf(&b, "- Total allocated before cost of goods: %.1f%%, leaving %.1f%% for COGS.\n",
		res.TotalAllocatedPercent, res.RoomPercent)
	if res.Clamped {
		fmt.Fprintf(&b, "- COGS multiplier is clamped at %.2fx because allocations leave no workable room.\n", res.COGSMultiplier)
	} else {
		fmt.Fprintf(&b, "- COGS multiplier: %.2fx (a %s cost prices at %s).\n",
			res.COGSMultiplier, FormatUSD(1000), FormatUSD(1000*res.COGSMultiplier))
	}

	b.WriteString("\nScan performance:\n")
	if m.RecordCount == 0 {
		b.WriteString("- No completed scans on record.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- %d completed scans: %s sqft per scan day, %.1f positions per day, %.1f minutes per position.\n",
		m.RecordCount, FormatQty(round1(m.AvgSqftPerDay)), m.AvgPositionsPerDay, m.AvgMinutesPerPosition)
	fmt.Fprintf(&b, "- Average %.1f travel days and %.1f floors per job.\n", m.AvgTravelDays, m.AvgFloors)

	minSample := sc.MinimumSampleSize
	if minSample <= 0 {
		minSample = DefaultMinimumScanSampleSize
	}
	if m.RecordCount < minSample {
		fmt.Fprintf(&b, "- Sample is small (%d < %d); treat these rates as rough.\n", m.RecordCount, minSample)
	}

	types := make([]string, 0, len(m.ByBuildingType))
	for k := range m.ByBuildingType {
		types = append(types, k)
	}
	sort.Strings(types)
	for _, t := range types {
		g := m.ByBuildingType[t]
		label := t
		if label == "" {
			label = "Unspecified"
		}
		fmt.Fprintf(&b, "- %s: %d scans, %s sqft/day, complexity %.1f/3.\n",
			label, g.RecordCount, FormatQty(round1(g.AvgSqftPerDay)), g.AvgComplexity)
	}
	return b.String()
}

func overheadSourceLabel(s OverheadSource) string {
	switch s {
	case OverheadManual:
		return "manual override"
	case OverheadRolling:
		return "rolling average of recent months"
	case OverheadNoData:
		return "default, no monthly data"
	case OverheadNoRevenue:
		return "worst-case default, no revenue in window"
	}
	return string(s)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
