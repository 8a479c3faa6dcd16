// Package audit provides the audit command and its views of a run.
package audit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
)

// NewCommand creates the audit command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "audit [view]",
		GroupID: "review",
		Short:   "Inspect how entities were assembled",
		Long: `Audit resolves the period files and shows one view of the result.

Available subcommands:
  suspicious  - entities with several IDs or names, status notes or ambiguity
  trail       - IDs each merged entity carried in every period
  traceback   - metric totals per input period against the output
  provenance  - where each field of an entity came from`,
		Example: `  rollcall audit suspicious --flag resigned
  rollcall audit trail --layer name-only
  rollcall audit traceback
  rollcall audit provenance E0012 --field name`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown view: %s", args[0])
		},
	}

	cmd.AddCommand(NewSuspiciousCommand(app))
	cmd.AddCommand(NewTrailCommand(app))
	cmd.AddCommand(NewTracebackCommand(app))
	cmd.AddCommand(NewProvenanceCommand(app))

	return cmd
}
