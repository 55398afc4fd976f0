package cmd

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"

	"github.com/etnz/hashledger"
	"github.com/etnz/hashledger/config"
	"github.com/etnz/hashledger/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	envFile string
	port    string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the chain over HTTP" }
func (*serveCmd) Usage() string {
	return `hlc serve [-env <file>] [-port <port>]

  Serves the chain over HTTP, saving it to the ledger file after each append.

  The server is configured from the environment (HLC_PORT, HLC_LEDGER_FILE,
  HLC_CURRENCY, HLC_SCHEME, HLC_RATE_LIMIT, HLC_ALLOW_ORIGINS, HLC_PRODUCTION),
  read from the -env file first if any. An explicit -ledger-file flag takes
  precedence over HLC_LEDGER_FILE.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.envFile, "env", "", "Environment file to load (.env format)")
	f.StringVar(&c.port, "port", "", "Port to listen on. Overrides HLC_PORT.")
}

func (c *serveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	level := slog.LevelInfo
	if *Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var envFiles []string
	if c.envFile != "" {
		envFiles = append(envFiles, c.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}
	if isFlagSet(flag.CommandLine, "ledger-file") {
		cfg.LedgerFile = *ledgerFile
	}
	if c.port != "" {
		cfg.Port = c.port
	}

	chain, err := hashledger.LoadFile(cfg.LedgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Ledger file does not exist, starting a new chain", slog.String("file", cfg.LedgerFile))
		chain, err = hashledger.NewHashChain(cfg.ChainOptions()...), nil
	}
	if err != nil {
		logger.Error("Failed to load ledger", slog.String("file", cfg.LedgerFile), slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}
	if ok, index := chain.Verify(); !ok {
		logger.Warn("Serving a broken chain", slog.Int("first_invalid_index", index))
	}

	r, err := server.New(cfg, chain, server.FileStore{Path: cfg.LedgerFile}, logger)
	if err != nil {
		logger.Error("Failed to create server", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("file", cfg.LedgerFile), slog.Int("blocks", chain.Len()))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// isFlagSet reports whether the flag name was set on the command line.
func isFlagSet(flags *flag.FlagSet, name string) (set bool) {
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}
