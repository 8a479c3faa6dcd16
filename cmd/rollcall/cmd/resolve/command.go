// Package resolve provides the resolve command.
package resolve

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/alerts"
	"github.com/agentstation/rollcall/internal/cmd/cmdutil"
	"github.com/agentstation/rollcall/internal/cmd/globals"
	"github.com/agentstation/rollcall/internal/cmd/output"
	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/errors"
)

// NewCommand creates the resolve command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:     "resolve [period files...]",
		GroupID: "core",
		Short:   "Merge period observations into employee entities",
		Long: `Resolve reads per-period attendance files in chronological order and
merges rows that refer to the same person into one entity, matching by
ID and similar name, then ID and nickname, then identical name.

With no files, the configured period glob is used.`,
		Example: `  rollcall resolve 01.2568.csv 02.2568.csv      # Resolve two periods
  rollcall resolve --merged                       # Only merged entities
  rollcall resolve --search SBI2183 -o wide       # One employee, all columns
  rollcall resolve --save --db runs.db            # Store the run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := cmdutil.Run(cmd, app, args)
			if err != nil {
				return err
			}

			flags := globals.ParseResources(cmd)
			ef, err := flags.EntityFilter()
			if err != nil {
				return err
			}
			entities := ef.Apply(report.Result.Entities)
			if flags.Limit > 0 && len(entities) > flags.Limit {
				entities = entities[:flags.Limit]
			}

			format, err := cmdutil.Format(cmd, app)
			if err != nil {
				return err
			}
			rows := table.EntitiesToTableData(entities, report.Audit.OutputIDs, format == output.FormatWide)
			if err := cmdutil.Write(cmd, app, rows, report); err != nil {
				return err
			}

			if save {
				dsn := app.DatabaseDSN()
				if dsn == "" {
					return &errors.ValidationError{Field: "db", Message: "--save needs a database: set --db or database in the config file"}
				}
				client, err := app.Client()
				if err != nil {
					return err
				}
				id, err := client.Save(cmd.Context(), dsn, report)
				if err != nil {
					return err
				}
				if !globals.Parse(cmd).Quiet {
					_ = alerts.NewWriterTo(cmd.ErrOrStderr()).WriteAlert(alerts.NewSuccess(fmt.Sprintf("Saved run %s", id)))
				}
			}
			return cmdutil.Notify(cmd, report)
		},
	}

	globals.AddResourceFlags(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "Store the run in the history database")

	return cmd
}
