package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats an amount in US dollar notation with thousands
// separators and exactly two decimal places (e.g., $1,234,567.89).
func FormatUSD(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	result := "$" + applyThousandsGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatQty formats a quantity: whole numbers get grouping and no decimals,
// anything else is shown with two decimals.
func FormatQty(val float64) string {
	negative := val < 0
	if negative {
		val = -val
	}

	var out string
	if val == math.Trunc(val) {
		out = applyThousandsGrouping(fmt.Sprintf("%.0f", val))
	} else {
		raw := fmt.Sprintf("%.2f", val)
		parts := strings.SplitN(raw, ".", 2)
		out = applyThousandsGrouping(parts[0]) + "." + parts[1]
	}
	if negative {
		out = "-" + out
	}
	return out
}

// applyThousandsGrouping inserts a comma every three digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
