package audit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/alerts"
	"github.com/agentstation/rollcall/internal/cmd/cmdutil"
	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/provenance"
)

// NewProvenanceCommand creates the audit provenance subcommand.
func NewProvenanceCommand(app appcontext.Interface) *cobra.Command {
	var (
		fields []string
		export string
	)

	cmd := &cobra.Command{
		Use:   "provenance <entity> [period files...]",
		Short: "Show which period and row each field value came from",
		Args:  cobra.MinimumNArgs(1),
		Example: `  rollcall audit provenance E0012
  rollcall audit provenance E0012 --field name
  rollcall audit provenance E0012 --export provenance.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			report, err := cmdutil.Run(cmd, app, args[1:])
			if err != nil {
				return err
			}
			if _, err := report.Result.Entity(ref); err != nil {
				return err
			}

			all := report.Result.Provenance.Entity(ref)
			selected := make(map[provenance.Field][]provenance.Provenance, len(all))
			for field, history := range all {
				if table.MatchField(string(field), fields) {
					selected[field] = history
				}
			}

			if export != "" {
				if err := provenance.Save(export, report.Result.Provenance); err != nil {
					return err
				}
				_ = alerts.NewWriterTo(cmd.ErrOrStderr()).WriteAlert(
					alerts.NewSuccess(fmt.Sprintf("Wrote provenance of %d entities to %s", len(report.Result.Entities), export)))
			}
			return cmdutil.Write(cmd, app, table.ProvenanceToTableData(selected), selected)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "field", nil, "Only these fields (glob patterns, e.g. name, n*)")
	cmd.Flags().StringVar(&export, "export", "", "Also write the provenance of every entity to this YAML file")

	return cmd
}
