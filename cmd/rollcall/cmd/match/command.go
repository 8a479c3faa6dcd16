// Package match provides the match command.
package match

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/cmdutil"
	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/roster"
)

// NewCommand creates the match command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:     "match [period files...]",
		GroupID: "core",
		Short:   "Match resolved entities against the master roster",
		Long: `Match resolves the period files and classifies every entity against
the master roster given with --roster: matched by ID and similar name,
matched by identical name, or unmatched with a note explaining why.`,
		Example: `  rollcall match --roster master.csv                 # Full reconciliation
  rollcall match --roster master.csv --only unmatched # Entities needing review`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := cmdutil.Run(cmd, app, args)
			if err != nil {
				return err
			}
			rec := report.Reconciliation
			if rec == nil {
				return &errors.ValidationError{Field: "roster", Message: "no master roster: set --roster or roster in the config file"}
			}

			if only != "" {
				class := roster.Classification(only)
				filtered := &roster.Reconciliation{Collisions: rec.Collisions, Counts: rec.Counts}
				for _, m := range rec.Results {
					if m.Classification == class {
						filtered.Results = append(filtered.Results, m)
					}
				}
				rec = filtered
			}

			if err := cmdutil.Write(cmd, app, table.MatchesToTableData(rec), rec); err != nil {
				return err
			}
			return cmdutil.Notify(cmd, report)
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "Only show one classification: id+name, name, unmatched")

	return cmd
}
