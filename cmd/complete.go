package cmd

import (
	"flag"

	"github.com/etnz/hashledger"
	"github.com/etnz/hashledger/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the commander's subcommands,
// and of their flags.
func Completion(cdr *subcommands.Commander) *complete.Command {
	top := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	cdr.VisitAll(func(f *flag.Flag) { top.Flags[f.Name] = predictFlag(f) })

	cdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predictFlag(f) })
		if c.Name() == "topic" {
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(topics)
			}
		}
		top.Sub[c.Name()] = sub
	})
	return top
}

// predictFlag predicts the values of f.
func predictFlag(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "t":
		return predict.Set{hashledger.Income.String(), hashledger.Expense.String()}
	case "scheme":
		return predict.Set{hashledger.Framed.String(), hashledger.Concat.String()}
	case "ledger-file":
		return predict.Files("*.jsonl")
	case "i", "o":
		return predict.Files("*.csv")
	case "env":
		return predict.Files("*")
	}
	return predict.Something
}
