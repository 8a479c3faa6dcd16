// Package report provides the report command.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/alerts"
	"github.com/agentstation/rollcall/internal/cmd/cmdutil"
	"github.com/agentstation/rollcall/internal/cmd/globals"
	"github.com/agentstation/rollcall/internal/report"
	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
)

// NewCommand creates the report command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		out   string
		title string
	)

	cmd := &cobra.Command{
		Use:     "report [period files...]",
		GroupID: "review",
		Short:   "Write a markdown review document for HR",
		Long: `Report resolves the period files and writes one markdown document with
the summary, suspicious entities, the master roster match, the merge
trail and the metric traceback.`,
		Example: `  rollcall report --roster master.csv -O review.md
  rollcall report 01.2568.csv 02.2568.csv --title "Q1 2568"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := cmdutil.Paths(args, app.PeriodGlob())
			if err != nil {
				return err
			}
			rep, err := cmdutil.Run(cmd, app, paths)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions) //nolint:gosec // path comes from CLI flags
				if err != nil {
					return errors.WrapIO("create", out, err)
				}
				defer f.Close() //nolint:errcheck
				w = f
			}

			doc := report.Document{
				Title:       title,
				GeneratedAt: time.Now(),
				Sources:     paths,
				Result:      rep.Result,
				Audit:       rep.Audit,
			}
			if err := report.Write(w, doc); err != nil {
				return err
			}

			if out != "" && !globals.Parse(cmd).Quiet {
				_ = alerts.NewWriterTo(cmd.ErrOrStderr()).WriteAlert(alerts.NewSuccess(fmt.Sprintf("Wrote %s", out)))
			}
			return cmdutil.Notify(cmd, rep)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "O", "", "Write the document to this file instead of stdout")
	cmd.Flags().StringVar(&title, "title", report.DefaultTitle, "Document title")

	return cmd
}
