package cmdutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rollcall"
	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/internal/cmd/output"
	"github.com/agentstation/rollcall/internal/sources"
	"github.com/agentstation/rollcall/pkg/errors"
)

func TestPaths(t *testing.T) {
	got, err := Paths([]string{"b.csv", "a.csv"}, "ignored/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.csv", "a.csv"}, got)

	dir := t.TempDir()
	for _, name := range []string{"02.2568.csv", "01.2568.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("id,name\n"), 0o600))
	}
	got, err = Paths(nil, filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "01.2568.yaml"), filepath.Join(dir, "02.2568.csv")}, got)

	_, err = Paths(nil, filepath.Join(dir, "*.xlsx"))
	assert.True(t, errors.IsValidationError(err))
}

// command returns a subcommand under a root carrying the global flags.
func command(args ...string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	root := &cobra.Command{Use: "rollcall"}
	pf := root.PersistentFlags()
	pf.StringP("format", "o", "", "")
	pf.BoolP("quiet", "q", false, "")
	pf.BoolP("verbose", "v", false, "")
	pf.Bool("no-color", false, "")

	sub := &cobra.Command{Use: "sub", RunE: func(*cobra.Command, []string) error { return nil }}
	root.AddCommand(sub)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"sub"}, args...))
	_ = root.Execute()
	return sub, &stdout, &stderr
}

func TestFormat(t *testing.T) {
	app := &appcontext.Mock{OutputFormatFunc: func() string { return "yaml" }}

	cmd, _, _ := command()
	format, err := Format(cmd, app)
	require.NoError(t, err)
	assert.Equal(t, output.FormatYAML, format)

	cmd, _, _ = command("-o", "md")
	format, err = Format(cmd, app)
	require.NoError(t, err)
	assert.Equal(t, output.FormatMarkdown, format)

	cmd, _, _ = command("-o", "xml")
	_, err = Format(cmd, app)
	assert.True(t, errors.IsValidationError(err))
}

func TestRunWriteNotify(t *testing.T) {
	files := fstest.MapFS{
		"01.2568.csv": {Data: []byte("id,name,work_days\nSBI729,นาย เสร็จ,20\n")},
		"02.2568.csv": {Data: []byte("id,name,work_days\nSBI729,นาย PISET SAY (เสร็จ),22\n")},
	}
	app := &appcontext.Mock{
		ClientFunc: func() (rollcall.Client, error) {
			return rollcall.New(rollcall.WithFileReader(&sources.FSReader{FS: files}))
		},
		OutputFormatFunc: func() string { return "json" },
	}

	cmd, stdout, stderr := command()
	report, err := Run(cmd, app, []string{"01.2568.csv", "02.2568.csv"})
	require.NoError(t, err)
	require.Len(t, report.Result.Entities, 1)

	rows := output.Data{Headers: []string{"Ref"}, Rows: [][]string{{"E0001"}}}
	require.NoError(t, Write(cmd, app, rows, report.Result.Entities))
	assert.Contains(t, stdout.String(), `"ref": "E0001"`)

	require.NoError(t, Notify(cmd, report))
	assert.Contains(t, stderr.String(), "Resolved 2 observations into 1 entities")

	quiet, _, quietErr := command("-q")
	require.NoError(t, Notify(quiet, report))
	assert.Empty(t, quietErr.String())
}
