package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/cmd/rollcall/cmd/audit"
	"github.com/agentstation/rollcall/cmd/rollcall/cmd/completion"
	"github.com/agentstation/rollcall/cmd/rollcall/cmd/history"
	"github.com/agentstation/rollcall/cmd/rollcall/cmd/match"
	"github.com/agentstation/rollcall/cmd/rollcall/cmd/report"
	"github.com/agentstation/rollcall/cmd/rollcall/cmd/resolve"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(resolve.NewCommand(a))
	rootCmd.AddCommand(match.NewCommand(a))

	// Review commands
	rootCmd.AddCommand(audit.NewCommand(a))
	rootCmd.AddCommand(report.NewCommand(a))
	rootCmd.AddCommand(history.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
	rootCmd.AddCommand(completion.NewCommand())

	completion.RegisterFlagValues(rootCmd)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "rollcall version %s\n", a.version)
			fmt.Fprintf(w, "commit: %s\n", a.commit)
			fmt.Fprintf(w, "built: %s\n", a.date)
			fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
