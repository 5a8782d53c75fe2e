package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/log"
)

var version = "dev"

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var (
		dbPath    string
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Personal expense ledger",
		Long:          `ledger records expenses in SQLite and serves them to agents as MCP tools.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cli.LoadEnvFile()
			cfg := config.Load()

			flags := cmd.Flags()
			if flags.Changed("db") {
				cfg.SQLiteDBPath = dbPath
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if t, err := flags.GetString("transport"); err == nil && flags.Changed("transport") {
				cfg.Transport = t
			}
			if p, err := flags.GetString("port"); err == nil && flags.Changed("port") {
				cfg.Port = p
			}

			a.logger = cli.SetupLogger(cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path, or :memory: (default $SQLITE_DB_PATH)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(serveCmd(a))
	root.AddCommand(migrateCmd(a))
	root.AddCommand(addCmd(a))
	root.AddCommand(listCmd(a))
	root.AddCommand(summarizeCmd(a))
	root.AddCommand(categoriesCmd(a))

	return root
}

func main() {
	ctx, stop := cli.GracefulShutdown(context.Background())
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
