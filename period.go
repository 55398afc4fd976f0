package hashledger

import (
	"slices"

	"github.com/etnz/hashledger/date"
)

// PeriodSummary is the Summary of the transactions dated within a period.
type PeriodSummary struct {
	Period string     `json:"period"` // label, like 2025-03
	Range  date.Range `json:"-"`
	Summary
}

// SummarizeBy summarizes txs per period, in chronological order. Periods
// without transactions are omitted.
func SummarizeBy(currency string, txs []Transaction, period date.Period) []PeriodSummary {
	groups := make(map[date.Range][]Transaction)
	var ranges []date.Range
	for _, tx := range txs {
		r := date.NewRange(tx.Date, period)
		if _, ok := groups[r]; !ok {
			ranges = append(ranges, r)
		}
		groups[r] = append(groups[r], tx)
	}
	slices.SortFunc(ranges, func(a, b date.Range) int {
		switch {
		case a.From.Before(b.From):
			return -1
		case a.From.After(b.From):
			return 1
		}
		return 0
	})

	summaries := make([]PeriodSummary, 0, len(ranges))
	for _, r := range ranges {
		summaries = append(summaries, PeriodSummary{
			Period:  r.Label(period),
			Range:   r,
			Summary: summarize(currency, groups[r]),
		})
	}
	return summaries
}

// Within returns the transactions dated within r, in the same order.
func Within(txs []Transaction, r date.Range) []Transaction {
	var kept []Transaction
	for _, tx := range txs {
		if r.Contains(tx.Date) {
			kept = append(kept, tx)
		}
	}
	return kept
}
