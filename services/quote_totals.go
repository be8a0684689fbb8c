package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IntegrityStatus is the margin-health classification of a quote.
type IntegrityStatus string

const (
	IntegrityPassed  IntegrityStatus = "passed"
	IntegrityWarning IntegrityStatus = "warning"
	IntegrityBlocked IntegrityStatus = "blocked"
)

// Margin thresholds in percent. A value equal to a threshold lands in the higher tier.
const (
	MarginFloorPercent  = 40
	MarginTargetPercent = 45
)

var (
	marginFloor  = decimal.NewFromInt(MarginFloorPercent)
	marginTarget = decimal.NewFromInt(MarginTargetPercent)
	hundred      = decimal.NewFromInt(100)
)

// QuoteTotals holds the aggregated money figures and the integrity verdict of a quote.
type QuoteTotals struct {
	TotalPrice         float64         `json:"totalPrice"`
	TotalCost          float64         `json:"totalCost"`
	GrossMargin        float64         `json:"grossMargin"`
	GrossMarginPercent float64         `json:"grossMarginPercent"`
	IntegrityStatus    IntegrityStatus `json:"integrityStatus"`
	IntegrityFlags     []string        `json:"integrityFlags"`
	UnpricedCount      int             `json:"unpricedCount"`
}

// CalcQuoteTotals sums price and cost over the line items and classifies
// the margin. Unset money fields count as zero in the sums but always block
// the quote. The classification is recomputed from scratch on every call.
func CalcQuoteTotals(items []LineItemShell) QuoteTotals {
	totalPrice := decimal.Zero
	totalCost := decimal.Zero
	unpriced := 0

	for _, item := range items {
		if item.Price != nil {
			totalPrice = totalPrice.Add(decimal.NewFromFloat(*item.Price))
		}
		if item.Cost != nil {
			totalCost = totalCost.Add(decimal.NewFromFloat(*item.Cost))
		}
		if !item.Priced() {
			unpriced++
		}
	}

	margin := totalPrice.Sub(totalCost)
	marginPercent := decimal.Zero
	if !totalPrice.IsZero() {
		marginPercent = margin.Div(totalPrice).Mul(hundred)
	}

	totals := QuoteTotals{
		TotalPrice:         totalPrice.InexactFloat64(),
		TotalCost:          totalCost.InexactFloat64(),
		GrossMargin:        margin.InexactFloat64(),
		GrossMarginPercent: marginPercent.InexactFloat64(),
		UnpricedCount:      unpriced,
		IntegrityFlags:     []string{},
	}
	totals.IntegrityStatus, totals.IntegrityFlags = classifyIntegrity(marginPercent, unpriced)
	return totals
}

// classifyIntegrity applies the margin gate:
//
//	blocked: any unpriced item, or margin below the floor
//	warning: margin in [floor, target)
//	passed:  margin at or above target
func classifyIntegrity(marginPercent decimal.Decimal, unpriced int) (IntegrityStatus, []string) {
	flags := []string{}
	status := IntegrityPassed

	if unpriced > 0 {
		status = IntegrityBlocked
		flags = append(flags, fmt.Sprintf("%d line item(s) missing price or cost", unpriced))
	}

	pct := marginPercent.StringFixed(1)
	switch {
	case marginPercent.LessThan(marginFloor):
		status = IntegrityBlocked
		shortfall := marginFloor.Sub(marginPercent).StringFixed(1)
		flags = append(flags, fmt.Sprintf("Gross margin %s%% is below the %d%% floor by %s points",
			pct, MarginFloorPercent, shortfall))
	case marginPercent.LessThan(marginTarget):
		if status != IntegrityBlocked {
			status = IntegrityWarning
		}
		shortfall := marginTarget.Sub(marginPercent).StringFixed(1)
		flags = append(flags, fmt.Sprintf("Gross margin %s%% is below the %d%% target by %s points",
			pct, MarginTargetPercent, shortfall))
	}

	return status, flags
}
