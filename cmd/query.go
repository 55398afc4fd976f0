package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/hashledger"
	"github.com/google/subcommands"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression on the chain" }
func (*queryCmd) Usage() string {
	return `hlc query <jsonpath>

  Evaluates a JSONPath expression on a JSON document describing the chain:

    {
      "currency": "INR",
      "scheme": "framed",
      "valid": true,
      "blocks": [ {"index": 0, "date": ..., "hash": ...}, ... ],
      "summary": {"income": {...}, "expense": {...}, "balance": {"currency": "INR", "amount": "70.00"}}
    }

Usage Examples:
$ hlc query '$.summary.balance.amount'
$ hlc query '$.blocks[-1:].hash'
`
}

func (*queryCmd) SetFlags(f *flag.FlagSet) {}

func (*queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	chain, err := DecodeChain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	val, err := query(chain, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	data, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(data))
	return subcommands.ExitSuccess
}

// query evaluates path on the JSON form of the chain.
func query(c *hashledger.HashChain, path string) (any, error) {
	valid, _ := c.Verify()
	doc := struct {
		Currency string             `json:"currency"`
		Scheme   string             `json:"scheme"`
		Valid    bool               `json:"valid"`
		Blocks   []hashledger.Block `json:"blocks"`
		Summary  hashledger.Summary `json:"summary"`
	}{c.Currency(), c.Scheme().String(), valid, c.Blocks(), c.Summarize()}

	// jsonpath works on generic values only.
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, err
	}
	val, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return val, nil
}
