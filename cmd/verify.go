package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hashledger/renderer"
	"github.com/google/subcommands"
)

type verifyCmd struct {
	all  bool
	json bool
}

func (*verifyCmd) Name() string     { return "verify" }
func (*verifyCmd) Synopsis() string { return "check the integrity of the chain" }
func (*verifyCmd) Usage() string {
	return `hlc verify [-all] [-json]

  Recomputes every block digest and checks every link, starting from the
  genesis block. Exits with a failure status if the chain is broken.
`
}

func (c *verifyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "List every violation instead of the first one")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON")
}

func (c *verifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	chain, err := DecodeChain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	v := renderer.NewVerification(chain, c.all)
	if c.json {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
	} else {
		printMarkdown(renderer.RenderVerification(v))
	}

	if !v.Valid {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
