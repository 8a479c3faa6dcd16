package audit

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/cmdutil"
	"github.com/agentstation/rollcall/internal/cmd/filter"
	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/resolver"
)

// NewTrailCommand creates the audit trail subcommand.
func NewTrailCommand(app appcontext.Interface) *cobra.Command {
	f := &filter.TrailFilter{}
	var layer string

	cmd := &cobra.Command{
		Use:   "trail [period files...]",
		Short: "Show the IDs each merged entity carried per period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if layer != "" {
				l, err := resolver.ParseLayer(layer)
				if err != nil {
					return errors.WrapValidation("layer", err)
				}
				f.Layer = l
			}
			report, err := cmdutil.Run(cmd, app, args)
			if err != nil {
				return err
			}
			trail := f.Apply(report.Audit.Trail)
			return cmdutil.Write(cmd, app, table.TrailToTableData(trail), trail)
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "", "Only entities whose strongest merge used this layer")
	cmd.Flags().StringVar(&f.Search, "search", "", "Only entities whose ref, ID or name contains this text")

	return cmd
}
