package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/hashledger"
)

// BlocksMarkdown renders chain blocks as a markdown table. Hashes are shortened.
func BlocksMarkdown(blocks []hashledger.Block, currency string) string {
	var b strings.Builder
	b.WriteString("| # | Date | Description | Type | Amount | Previous | Hash |\n")
	b.WriteString("|---:|:---|:---|:---|---:|:---|:---|\n")
	for _, blk := range blocks {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | `%s` | `%s` |\n",
			blk.Index,
			blk.Date,
			cell(blk.Description),
			blk.Kind,
			hashledger.M(blk.Amount, currency),
			shortHash(blk.PrevHash),
			shortHash(blk.Hash),
		)
	}
	return b.String()
}

// TransactionsMarkdown renders transactions with their signed amounts, as
// they appear in the flat ledger export.
func TransactionsMarkdown(txs []hashledger.Transaction, currency string) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "| Date | Description | Type | Amount |\n")
		fmt.Fprintf(w, "|:---|:---|:---|---:|\n")
		for _, tx := range txs {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", tx.Date, cell(tx.Description), tx.Kind, hashledger.M(tx.Signed(), currency).SignedString())
		}
		return len(txs) > 0
	})
	if b.Len() == 0 {
		b.WriteString("_No transactions._\n")
	}
	return b.String()
}

// SummaryMarkdown renders the income, expense and balance figures.
func SummaryMarkdown(s hashledger.Summary) string {
	var b strings.Builder
	b.WriteString("# Summary\n\n")
	b.WriteString("| | Amount |\n")
	b.WriteString("|:---|---:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", s.Income)
	fmt.Fprintf(&b, "| Expense | %s |\n", s.Expense)
	fmt.Fprintf(&b, "| **Balance** | **%s** |\n", s.Balance)
	return b.String()
}

// PeriodsMarkdown renders one summary row per period.
func PeriodsMarkdown(summaries []hashledger.PeriodSummary) string {
	if len(summaries) == 0 {
		return "_No transactions._\n"
	}
	var b strings.Builder
	b.WriteString("| Period | Income | Expense | Balance |\n")
	b.WriteString("|:---|---:|---:|---:|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", s.Period, s.Income, s.Expense, s.Balance.SignedString())
	}
	return b.String()
}
