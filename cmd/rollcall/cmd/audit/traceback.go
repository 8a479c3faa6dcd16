package audit

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/cmdutil"
	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/errors"
)

// NewTracebackCommand creates the audit traceback subcommand.
func NewTracebackCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "traceback [period files...]",
		Short: "Compare metric totals per input period with the output",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := cmdutil.Run(cmd, app, args)
			if err != nil {
				return err
			}
			tb := report.Audit.Traceback
			if err := cmdutil.Write(cmd, app, table.TracebackToTableData(tb), tb); err != nil {
				return err
			}
			if !tb.Balanced {
				return errors.NewInvariantError("conservation", "output totals differ from input totals")
			}
			return nil
		},
	}
}
