package app

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/pkg/errors"
)

// Execute runs the rollcall CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "rollcall",
		Short:   "Employee identity resolution for attendance extracts",
		Version: a.version,
		Long: `Rollcall reconstructs employee identities from per-period attendance
extracts. Rows that refer to the same person under a changed ID, a reused
ID or a differently written name are merged into one entity, metric
totals are preserved exactly, and every merge is kept for audit.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "review",
		Title: "Review Commands:",
	})

	f := a.flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "config file (default is ./.rollcall.yaml or $HOME/.rollcall.yaml)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&f.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&f.format, "format", "o", "", "output format: table, wide, json, yaml, markdown")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&f.roster, "roster", "", "master roster file (CSV or YAML)")
	pf.StringVar(&f.database, "db", "", "run history database: a SQLite path or a postgres:// URL")
	pf.Float64Var(&f.threshold, "threshold", 0, "name similarity threshold in (0, 1]")

	rootCmd.SetVersionTemplate("rollcall {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	fs := cmd.Flags()
	if fs.Changed("config") {
		config, err := LoadConfig(a.flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}
	a.config.UpdateFromFlags(fs, a.flags)

	if fs.Changed("threshold") && (a.config.Threshold <= 0 || a.config.Threshold > 1) {
		return &errors.ValidationError{Field: "threshold", Value: a.config.Threshold, Message: "must be greater than 0 and at most 1"}
	}
	if a.config.NoColor {
		color.NoColor = true
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	// Drop any client built before the flags were known
	a.mu.Lock()
	a.client = nil
	a.mu.Unlock()

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
