package services

// QuoteExportData holds everything the quote spreadsheet needs.
type QuoteExportData struct {
	Title       string
	QuoteID     string
	CreatedDate string
	Items       []LineItemShell
	Totals      QuoteTotals
}

// lineMarginPercent returns the margin of a single priced line, or false when
// either money field is unset or the price is zero.
func lineMarginPercent(s LineItemShell) (float64, bool) {
	if !s.Priced() || *s.Price == 0 {
		return 0, false
	}
	return (*s.Price - *s.Cost) / *s.Price * 100, true
}
