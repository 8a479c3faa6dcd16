// Package cmdutil holds the steps shared by rollcall commands: finding
// period files, running the pipeline and writing results.
package cmdutil

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall"
	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/alerts"
	"github.com/agentstation/rollcall/internal/cmd/globals"
	"github.com/agentstation/rollcall/internal/cmd/output"
	"github.com/agentstation/rollcall/internal/sources"
	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
)

// Paths returns the period files named on the command line, or the files
// matching glob when there are none.
func Paths(args []string, glob string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if glob == "" {
		glob = constants.DefaultPeriodGlob
	}
	paths, err := sources.Discover(glob)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, &errors.ValidationError{
			Field:   "periods",
			Value:   glob,
			Message: "no period files given and none match " + glob,
		}
	}
	return paths, nil
}

// Run resolves the period files named by args with the app's client.
func Run(cmd *cobra.Command, app appcontext.Interface, args []string) (*rollcall.Report, error) {
	paths, err := Paths(args, app.PeriodGlob())
	if err != nil {
		return nil, err
	}
	client, err := app.Client()
	if err != nil {
		return nil, err
	}
	return client.RunFiles(cmd.Context(), paths)
}

// Format returns the output format: the --format flag, then the app
// configuration, then detection from the terminal.
func Format(cmd *cobra.Command, app appcontext.Interface) (output.Format, error) {
	explicit := globals.Parse(cmd).Format
	if explicit == "" {
		explicit = app.OutputFormat()
	}
	format, err := output.ParseFormat(explicit)
	if err != nil {
		return "", err
	}
	return output.DetectFormat(string(format)), nil
}

// Write renders rows for tabular formats and raw otherwise.
func Write(cmd *cobra.Command, app appcontext.Interface, rows output.Data, raw any) error {
	format, err := Format(cmd, app)
	if err != nil {
		return err
	}
	if globals.Parse(cmd).NoColor || format == output.FormatMarkdown {
		color.NoColor = true
	}
	return output.Write(cmd.OutOrStdout(), format, rows, raw)
}

// Notify writes the run alerts to stderr unless --quiet is set.
func Notify(cmd *cobra.Command, report *rollcall.Report) error {
	if globals.Parse(cmd).Quiet {
		return nil
	}
	format, _ := output.ParseFormat(globals.Parse(cmd).Format)
	w := alerts.NewFormatWriter(cmd.ErrOrStderr(), format)
	return alerts.WriteAll(w, alerts.FromReport(report))
}
