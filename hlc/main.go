// Command hlc keeps a hash-chained ledger of income and expenses.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/etnz/hashledger/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Exits when invoked by the shell for completion.
	cmd.Completion(commander).Complete("hlc")

	flag.Parse()
	log.SetFlags(0)
	if *cmd.Verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	// Unknown subcommands are looked up as hlc-<name> extensions.
	if name := flag.Arg(0); name != "" && !isCommand(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}

// isCommand reports whether name is a registered subcommand.
func isCommand(cdr *subcommands.Commander, name string) (found bool) {
	cdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		if c.Name() == name {
			found = true
		}
	})
	return
}
