// Package cmd implements the CLI application to keep a hash-chained ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/hashledger"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&incomeCmd{}, "transactions")
	c.Register(&expenseCmd{}, "transactions")
	c.Register(&addCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")

	c.Register(&txCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&verifyCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
	c.Register(&AssistCmd{}, "help")

	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger file containing the chain (JSONL format)")
var currency = flag.String("currency", "INR", "Currency of a new chain")
var scheme = flag.String("scheme", hashledger.Framed.String(), "Digest scheme of a new chain (framed, concat)")

// Verbose enables detailed logs.
var Verbose = flag.Bool("v", false, "Verbose output")

// chainOptions returns the options of a new chain, from the global flags.
func chainOptions() ([]hashledger.Option, error) {
	s, err := hashledger.ParseScheme(*scheme)
	if err != nil {
		return nil, err
	}
	return []hashledger.Option{hashledger.WithCurrency(*currency), hashledger.WithScheme(s)}, nil
}

// DecodeChain decodes the chain from the app ledger file.
//
// A missing file is not an error: a new chain is created instead, using the
// -currency and -scheme flags. An existing file keeps its own currency and scheme.
func DecodeChain() (*hashledger.HashChain, error) {
	c, err := hashledger.LoadFile(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, creating a new chain instead")
		opts, err := chainOptions()
		if err != nil {
			return nil, err
		}
		return hashledger.NewHashChain(opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not load ledger file %q: %w", *ledgerFile, err)
	}
	return c, nil
}

// EncodeChain encodes the chain into the app ledger file.
func EncodeChain(c *hashledger.HashChain) error {
	if err := hashledger.SaveFile(*ledgerFile, c); err != nil {
		return fmt.Errorf("could not save ledger file %q: %w", *ledgerFile, err)
	}
	return nil
}

// printMarkdown renders md for the terminal, or prints it as is if it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Printf("could not render markdown: %v", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
