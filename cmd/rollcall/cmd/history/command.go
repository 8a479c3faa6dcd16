// Package history provides commands for browsing stored runs.
package history

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/alerts"
	"github.com/agentstation/rollcall/internal/cmd/cmdutil"
	"github.com/agentstation/rollcall/internal/cmd/globals"
	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/internal/store"
	"github.com/agentstation/rollcall/pkg/errors"
)

// NewCommand creates the history command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		GroupID: "review",
		Short:   "List runs stored with resolve --save",
		Example: `  rollcall history --db runs.db
  rollcall history show 3f2a9c1e --db runs.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(app)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck

			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 && !globals.Parse(cmd).Quiet {
				_ = alerts.NewWriterTo(cmd.ErrOrStderr()).WriteAlert(alerts.NewInfo("No runs stored yet. Use resolve --save to store one."))
			}
			return cmdutil.Write(cmd, app, table.RunsToTableData(runs), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Limit number of runs")
	cmd.AddCommand(newShowCommand(app))

	return cmd
}

func newShowCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run>",
		Short: "Show the entities of a stored run",
		Long:  `Show prints the entities of one stored run. A unique prefix of the run ID is enough.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(app)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck

			run, err := s.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdutil.Write(cmd, app, table.RunEntitiesToTableData(run.EntityRecords), run)
		},
	}
}

func open(app appcontext.Interface) (*store.Store, error) {
	dsn := app.DatabaseDSN()
	if dsn == "" {
		return nil, &errors.ValidationError{Field: "db", Message: "no history database: set --db or database in the config file"}
	}
	return store.Open(dsn)
}
