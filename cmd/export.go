package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
	flat   bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the chain as CSV" }
func (*exportCmd) Usage() string {
	return `hlc export [-o <file.csv>] [-flat]

  Writes one CSV row per block, genesis included. With -flat, writes the flat
  ledger view instead: no genesis block, no hashes, signed amounts.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.BoolVar(&c.flat, "flat", false, "Export the flat ledger view")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	chain, err := DecodeChain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var data []byte
	if c.flat {
		data, err = chain.Ledger().ExportCSV()
	} else {
		data, err = chain.ExportCSV()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting chain: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output == "" {
		os.Stdout.Write(data)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.output, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
