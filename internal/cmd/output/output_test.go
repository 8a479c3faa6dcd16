package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/errors"
)

type row struct {
	EntityRef string  `json:"entity_ref"`
	Total     float64 `json:"total"`
	Hidden    string  `json:"-"`
	internal  string
}

func sample() Data {
	return Data{
		Headers:         []string{"Ref", "Name", "Work Days"},
		Rows:            [][]string{{"E0001", "นาย เสร็จ", "20"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignLeft, table.AlignRight},
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	got, err := ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, got)

	_, err = ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestIsTabular(t *testing.T) {
	assert.True(t, FormatTable.IsTabular())
	assert.True(t, FormatMarkdown.IsTabular())
	assert.True(t, Format("").IsTabular())
	assert.False(t, FormatJSON.IsTabular())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, sample()))
	out := buf.String()
	assert.Contains(t, out, "E0001")
	assert.Contains(t, out, "นาย เสร็จ")
	assert.Contains(t, strings.ToUpper(out), "WORK DAYS")
}

func TestTableFormatterReflection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatWide).Format(&buf, []row{{EntityRef: "E0002", Total: 3}}))
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "ENTITY REF")
	assert.Contains(t, out, "E0002")
	assert.NotContains(t, out, "HIDDEN")

	d, ok := toTableData(row{EntityRef: "E0003", Total: 1.5})
	require.True(t, ok)
	assert.Equal(t, []string{"Property", "Value"}, d.Headers)
	assert.Equal(t, [][]string{{"Entity Ref", "E0003"}, {"Total", "1.5"}}, d.Rows)

	_, ok = toTableData(42)
	assert.False(t, ok)

	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, 42))
	assert.Equal(t, "42\n", buf.String())
}

func TestJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample(), map[string]string{"ref": "E0001"}))
	assert.JSONEq(t, `{"ref":"E0001"}`, buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatYAML, sample(), map[string]string{"ref": "E0001"}))
	assert.Equal(t, "ref: E0001\n", buf.String())
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, sample(), nil))
	out := buf.String()
	assert.Contains(t, out, "| Ref")
	assert.Contains(t, out, "E0001")
	assert.Contains(t, out, "---")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatMarkdown).Format(&buf, map[string]int{"entities": 3}))
	assert.Contains(t, buf.String(), "```json")
	assert.Contains(t, buf.String(), `"entities": 3`)
}
