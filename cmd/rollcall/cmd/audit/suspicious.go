package audit

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/cmdutil"
	"github.com/agentstation/rollcall/internal/cmd/filter"
	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/audit"
)

// NewSuspiciousCommand creates the audit suspicious subcommand.
func NewSuspiciousCommand(app appcontext.Interface) *cobra.Command {
	f := &filter.SuspiciousFilter{}
	var flag string

	cmd := &cobra.Command{
		Use:   "suspicious [period files...]",
		Short: "List entities that need a human look",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := cmdutil.Run(cmd, app, args)
			if err != nil {
				return err
			}
			f.Flag = audit.Flag(flag)
			entities := f.Apply(report.Audit.Suspicious)
			return cmdutil.Write(cmd, app, table.SuspiciousToTableData(entities), entities)
		},
	}

	cmd.Flags().StringVar(&flag, "flag", "",
		"Only entities with this flag: multiple-ids, multiple-names, resigned, restarted, transferred, ambiguous, roster-collision")
	cmd.Flags().StringVar(&f.Search, "search", "", "Only entities whose ref, ID or name contains this text")

	return cmd
}
