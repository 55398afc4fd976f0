package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hashledger"
	"github.com/etnz/hashledger/date"
	"github.com/etnz/hashledger/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	rangeFlags
	head int
	tail int
	flat bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the blocks of the chain" }
func (*txCmd) Usage() string {
	return `hlc tx [-p <period> | -s <start_date>] [-d <end_date>] [-head <n>] [-tail <n>] [-flat]

  Lists the blocks of the chain, genesis included, with options for filtering
  and limiting the output. With -flat, lists the transactions only, with
  their signed amounts.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	p.rangeFlags.set(f)
	f.IntVar(&p.head, "head", 0, "Show only the first N blocks.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N blocks.")
	f.BoolVar(&p.flat, "flat", false, "Show transactions without hashes, genesis excluded.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	r, err := p.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	chain, err := DecodeChain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	blocks := filterBlocks(chain.Blocks(), r)
	if p.head > 0 && len(blocks) > p.head {
		blocks = blocks[:p.head]
	}
	if p.tail > 0 && len(blocks) > p.tail {
		blocks = blocks[len(blocks)-p.tail:]
	}

	printMarkdown(blocksMarkdown(blocks, chain.Currency(), p.flat))
	return subcommands.ExitSuccess
}

// blocksMarkdown renders blocks, or only their transactions when flat.
func blocksMarkdown(blocks []hashledger.Block, currency string, flat bool) string {
	if !flat {
		return renderer.BlocksMarkdown(blocks, currency)
	}
	var txs []hashledger.Transaction
	for _, b := range blocks {
		if !b.IsGenesis() {
			txs = append(txs, b.Transaction())
		}
	}
	return renderer.TransactionsMarkdown(txs, currency)
}

// filterBlocks keeps the blocks dated within r.
func filterBlocks(blocks []hashledger.Block, r date.Range) []hashledger.Block {
	var kept []hashledger.Block
	for _, b := range blocks {
		if r.Contains(b.Date) {
			kept = append(kept, b)
		}
	}
	return kept
}
