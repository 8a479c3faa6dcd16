package alerts

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rollcall"
	"github.com/agentstation/rollcall/internal/cmd/output"
	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		level Level
		name  string
		icon  string
	}{
		{LevelError, "error", SymbolError},
		{LevelWarning, "warning", SymbolWarning},
		{LevelInfo, "info", SymbolInfo},
		{LevelSuccess, "success", SymbolSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.level.String())
			assert.Equal(t, tt.icon, tt.level.Icon())
			assert.NotNil(t, tt.level.Color())
		})
	}
	assert.Equal(t, "unknown(9)", Level(9).String())
}

func TestAlertString(t *testing.T) {
	a := NewError("load failed").WithError(errors.New("no such file"))
	assert.Equal(t, "✗ load failed: no such file", a.String())
	assert.Equal(t, "✓ done", NewSuccess("done").String())
}

func TestFormatWriterPlain(t *testing.T) {
	var buf bytes.Buffer
	w := NewFormatWriter(&buf, output.FormatTable)

	require.NoError(t, w.WriteAlert(NewWarning("2 ambiguous matches").WithDetails("01.2568 row 4", "02.2568 row 9")))
	assert.Equal(t, "! 2 ambiguous matches\n   01.2568 row 4\n   02.2568 row 9\n", buf.String())

	buf.Reset()
	w.WithConfig(WriterConfig{})
	require.NoError(t, w.WriteAlert(NewInfo("quiet details").WithDetails("hidden")))
	assert.Equal(t, "i quiet details\n", buf.String())
}

func TestFormatWriterStructured(t *testing.T) {
	var buf bytes.Buffer
	w := NewFormatWriter(&buf, output.FormatJSON)
	require.NoError(t, w.WriteAlert(NewError("totals differ").WithError(errors.New("boom"))))
	assert.Contains(t, buf.String(), `"level": "error"`)
	assert.Contains(t, buf.String(), `"error": "boom"`)
	assert.NotContains(t, buf.String(), "timestamp")

	buf.Reset()
	w = NewFormatWriter(&buf, output.FormatYAML).WithConfig(WriterConfig{ShowTimestamp: true})
	require.NoError(t, w.WriteAlert(NewSuccess("saved")))
	assert.Contains(t, buf.String(), "level: success")
	assert.Contains(t, buf.String(), "timestamp:")
}

func TestWriteAll(t *testing.T) {
	var seen []string
	w := WriterFunc(func(a *Alert) error {
		seen = append(seen, a.Message)
		if a.Level == LevelError {
			return errors.New("stop")
		}
		return nil
	})

	err := WriteAll(w, []*Alert{NewInfo("a"), NewError("b"), NewInfo("c")})
	assert.EqualError(t, err, "stop")
	assert.Equal(t, []string{"a", "b"}, seen)

	assert.NoError(t, WriteAll(DiscardWriter, []*Alert{NewError("x")}))
}

func observation(period int, label string, row int, id, name string) attendance.Observation {
	var m attendance.Metrics
	m[attendance.WorkDays] = 20
	return attendance.NewObservation(period, label, row, id, name, m)
}

func TestFromReport(t *testing.T) {
	assert.Nil(t, FromReport(nil))

	periods := []attendance.Period{
		{Ordinal: 1, Label: "01.2568", Observations: []attendance.Observation{
			observation(1, "01.2568", 1, "SBI729", "นาย เสร็จ"),
		}},
		{Ordinal: 2, Label: "02.2568", Observations: []attendance.Observation{
			observation(2, "02.2568", 1, "SBI729", "นาย PISET SAY (เสร็จ)"),
		}},
	}
	c, err := rollcall.New()
	require.NoError(t, err)
	report, err := c.Run(context.Background(), periods, nil)
	require.NoError(t, err)

	got := FromReport(report)
	require.Len(t, got, 1)
	assert.Equal(t, LevelSuccess, got[0].Level)
	assert.Equal(t, "Resolved 2 observations into 1 entities", got[0].Message)
}

func TestFromReportProblems(t *testing.T) {
	obs := observation(3, "03.2568", 7, "X1", "SOMCHAI JAIDEE")
	report := &rollcall.Report{
		Result: &resolver.Result{
			Entities: []*resolver.Entity{},
			Ambiguities: []resolver.Ambiguity{
				{Observation: obs, Layer: resolver.LayerNameOnly, Candidates: []string{"E0003", "E0004"}, Created: "E0006"},
			},
		},
		Reconciliation: &roster.Reconciliation{
			Collisions: []roster.Collision{{RecordID: "SBI2183", Name: "YE KYAW PAING", Entities: []string{"E0002", "E0005"}}},
		},
		Audit: &audit.Report{Traceback: audit.Traceback{Balanced: false}},
	}

	got := FromReport(report)
	require.Len(t, got, 4)
	assert.Equal(t, LevelWarning, got[1].Level)
	assert.Equal(t, "1 ambiguous matches kept as new entities", got[1].Message)
	assert.Equal(t, []string{"03.2568 row 7 SOMCHAI JAIDEE: [E0003 E0004]"}, got[1].Details)
	assert.Equal(t, LevelWarning, got[2].Level)
	assert.Equal(t, []string{"SBI2183: [E0002 E0005]"}, got[2].Details)
	assert.Equal(t, LevelError, got[3].Level)
}
