package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hashledger"
	"github.com/etnz/hashledger/date"
	"github.com/google/subcommands"
)

// appendTransaction appends a transaction to the app chain, and saves it.
func appendTransaction(tx hashledger.Transaction) subcommands.ExitStatus {
	c, err := DecodeChain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	block, err := c.AppendTransaction(tx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error appending transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeChain(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended block %d (%s) to %s\n", block.Index, block.Hash, *ledgerFile)
	return subcommands.ExitSuccess
}

// txFlags are the flags shared by all transaction commands.
type txFlags struct {
	date        string
	description string
	amount      string
}

func (t *txFlags) set(f *flag.FlagSet) {
	f.StringVar(&t.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&t.description, "m", "", "Description of the transaction")
	f.StringVar(&t.amount, "a", "", "Amount, a positive decimal number")
}

// transaction parses the flags into a transaction of the given kind.
func (t *txFlags) transaction(kind hashledger.Kind) (hashledger.Transaction, error) {
	day, err := hashledger.ParseDate(t.date)
	if err != nil {
		return hashledger.Transaction{}, err
	}
	amount, err := hashledger.ParseAmount(t.amount)
	if err != nil {
		return hashledger.Transaction{}, err
	}
	return hashledger.NewTransaction(day, t.description, kind, amount), nil
}

// execute appends the transaction of the given kind.
func (t *txFlags) execute(f *flag.FlagSet, kind hashledger.Kind) subcommands.ExitStatus {
	if t.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	tx, err := t.transaction(kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return appendTransaction(tx)
}

// --- Income Command ---

type incomeCmd struct{ txFlags }

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record money received" }
func (*incomeCmd) Usage() string {
	return `hlc income [-d <date>] [-m <description>] -a <amount>

  Appends an Income block to the chain.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(f, hashledger.Income)
}

// --- Expense Command ---

type expenseCmd struct{ txFlags }

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record money spent" }
func (*expenseCmd) Usage() string {
	return `hlc expense [-d <date>] [-m <description>] -a <amount>

  Appends an Expense block to the chain. The amount is entered as a positive
  number.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *expenseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(f, hashledger.Expense)
}

// --- Add Command ---

type addCmd struct {
	txFlags
	kind string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction of any type" }
func (*addCmd) Usage() string {
	return `hlc add -t <Income|Expense> [-d <date>] [-m <description>] -a <amount>

  Appends a block to the chain.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.StringVar(&c.kind, "t", "", "Transaction type (Income, Expense)")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := hashledger.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.execute(f, kind)
}

// --- Import Command ---

type importCmd struct {
	input string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append the rows of a ledger CSV file" }
func (*importCmd) Usage() string {
	return `hlc import -i <file.csv>

  Reads a flat ledger CSV (Date,Description,Type,Amount), as written by
  'hlc export -flat', and appends every row to the chain in file order.
  Nothing is imported if any row is invalid.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Ledger CSV file to import, '-' for stdin")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	r := os.Stdin
	if c.input != "-" {
		file, err := os.Open(c.input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.input, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}

	txs, err := hashledger.DecodeLedgerCSV(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error in row %d: %v\n", i+1, err)
			return subcommands.ExitFailure
		}
	}

	chain, err := DecodeChain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, tx := range txs {
		if _, err := chain.AppendTransaction(tx); err != nil {
			fmt.Fprintf(os.Stderr, "Error appending transaction: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if err := EncodeChain(chain); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully imported %d transactions to %s\n", len(txs), *ledgerFile)
	return subcommands.ExitSuccess
}
