package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hashledger"
	"github.com/etnz/hashledger/date"
	"github.com/etnz/hashledger/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	rangeFlags
	by   string
	json bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display income, expense and balance totals" }
func (*summaryCmd) Usage() string {
	return `hlc summary [-p <period> | -s <start_date>] [-d <end_date>] [-by <period>] [-json]

  Displays the total income, the total expense and the balance of the chain.
  The genesis block is not counted. With -by, one line per period is displayed
  instead, e.g. 'hlc summary -by month'.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.set(f)
	f.StringVar(&c.by, "by", "", "Summarize per period (day, week, month, quarter, year)")
	f.BoolVar(&c.json, "json", false, "Print the summary as JSON")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var by date.Period
	if c.by != "" {
		if by, err = date.ParsePeriod(c.by); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	chain, err := DecodeChain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	txs := hashledger.Within(chain.Transactions(), r)

	var (
		v  any
		md string
	)
	if c.by != "" {
		periods := hashledger.SummarizeBy(chain.Currency(), txs, by)
		v, md = periods, renderer.PeriodsMarkdown(periods)
	} else {
		l := hashledger.NewLedger(hashledger.WithCurrency(chain.Currency()))
		for _, tx := range txs {
			if _, err := l.Append(tx); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		s := l.Summarize()
		v, md = s, renderer.SummaryMarkdown(s)
	}

	if c.json {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding summary: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
