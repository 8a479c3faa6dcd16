package rollcall

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rollcall/internal/sources"
	"github.com/agentstation/rollcall/internal/store"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/logging"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

func testFiles() fstest.MapFS {
	return fstest.MapFS{
		"01.2568.csv": {Data: []byte("id,name,department,work_days,absent\n" +
			"SBI729,นาย เสร็จ,ทอ,20,1\n" +
			"SBI2183,นาง CHO ZIN,ย้อม,19,0\n" +
			"X1,นาง SOMCHAI JAIDEE,,1,0\n" +
			"Y2,นาย SOMCHAI JAIDEE,,1,0\n")},
		"02.2568.csv": {Data: []byte("id,name,department,work_days,absent\n" +
			"SBI729,นาย PISET SAY (เสร็จ),ทอ,22,0\n" +
			"SBI2183,นาย YE KYAW PAING,ย้อม,21,2\n" +
			"X1,นาย SOMCHAI JAIDEE,,1,0\n")},
		"03.2568.csv": {Data: []byte("id,name,department,work_days,absent\n" +
			"X1,SOMCHAI JAIDEE,,1,0\n")},
		"roster.csv": {Data: []byte("id,name\nSBI2183,นาย YE KYAW PAING\n")},
	}
}

func TestNewOptions(t *testing.T) {
	_, err := New(WithThreshold(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithConcurrency(0))
	assert.True(t, errors.IsValidationError(err))

	c, err := New(WithThreshold(0.9), WithProvenance(false), WithStrict(false))
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestRunFiles(t *testing.T) {
	tl := logging.NewTestLogger(t)
	c, err := New(
		WithFileReader(&sources.FSReader{FS: testFiles()}),
		WithRosterFile("roster.csv"),
		WithLogger(tl.Logger),
	)
	require.NoError(t, err)

	var merged []string
	var ambiguous []resolver.Ambiguity
	c.OnMerged(func(e *resolver.Entity, ev resolver.MergeEvent) {
		merged = append(merged, e.Ref+":"+ev.Layer.String())
	})
	c.OnAmbiguous(func(a resolver.Ambiguity) {
		ambiguous = append(ambiguous, a)
	})

	report, err := c.RunFiles(context.Background(), []string{"03.2568.csv", "02.2568.csv", "01.2568.csv"})
	require.NoError(t, err)

	assert.Equal(t, []string{"03.2568.csv", "02.2568.csv", "01.2568.csv"}, report.Sources)
	require.Len(t, report.Periods, 3)
	assert.Equal(t, 1, report.Periods[0].Ordinal)

	// SBI729 merges by nickname, SBI2183 is split by gender, X1 moves to the
	// Y2 entity by name and is then claimed by both
	assert.Len(t, report.Result.Entities, 6)
	assert.Equal(t, []string{"E0001:id+nickname", "E0004:name-only"}, merged)
	require.Len(t, ambiguous, 1)
	assert.Equal(t, []string{"E0003", "E0004"}, ambiguous[0].Candidates)

	require.NotNil(t, report.Reconciliation)
	res, ok := report.Reconciliation.Result("E0005")
	require.True(t, ok)
	assert.Equal(t, roster.MatchIDName, res.Classification)

	assert.True(t, report.Audit.Traceback.Balanced)
	assert.Equal(t, "SBI2183-A", report.Audit.OutputIDs["E0005"])
	assert.Equal(t, "SBI2183", report.Audit.OutputIDs["E0002"])

	tl.AssertContains(t, "Run complete")
	tl.AssertContains(t, `"threshold":0.85`)
}

func TestRunStrict(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	c, err := New(WithFileReader(&sources.FSReader{FS: testFiles()}), WithStrict(true))
	require.NoError(t, err)

	report, err := c.RunFiles(context.Background(), []string{"01.2568.csv", "02.2568.csv", "03.2568.csv"})
	require.Error(t, err)
	assert.True(t, errors.IsAmbiguous(err))
	require.NotNil(t, report)
	assert.Nil(t, report.Reconciliation)

	tl.AssertContains(t, "Ambiguous match, created separate entity")
	tl.AssertContains(t, `"period":"03.2568"`)
	tl.AssertContains(t, `"strict":true`)
}

func TestRunExplicitRoster(t *testing.T) {
	c, err := New(WithFileReader(&sources.FSReader{FS: testFiles()}))
	require.NoError(t, err)

	first, err := c.RunFiles(context.Background(), []string{"01.2568.csv"})
	require.NoError(t, err)
	assert.Nil(t, first.Reconciliation)

	r := roster.New(roster.NewRecord("SBI729", "นาย เสร็จ"))
	report, err := c.Run(context.Background(), first.Periods, r)
	require.NoError(t, err)
	require.NotNil(t, report.Reconciliation)
	assert.Equal(t, 1, report.Reconciliation.Counts[roster.MatchIDName])
}

func TestRunAdoptsRosterName(t *testing.T) {
	c, err := New(WithFileReader(&sources.FSReader{FS: testFiles()}))
	require.NoError(t, err)
	var resolved []string
	c.OnMerged(func(e *resolver.Entity, _ resolver.MergeEvent) {
		resolved = append(resolved, e.DisplayName)
	})

	loaded, err := c.RunFiles(context.Background(), []string{"01.2568.csv", "02.2568.csv"})
	require.NoError(t, err)
	resolved = nil

	r := roster.New(roster.NewRecord("SBI729", "นาย PISET SAY"))
	report, err := c.Run(context.Background(), loaded.Periods, r)
	require.NoError(t, err)

	res, ok := report.Reconciliation.Result("E0001")
	require.True(t, ok)
	assert.Equal(t, roster.MatchIDName, res.Classification)

	e, err := report.Result.Entity("E0001")
	require.NoError(t, err)
	assert.Equal(t, "นาย PISET SAY", e.DisplayName)
	assert.Equal(t, []string{"นาย เสร็จ", "นาย PISET SAY (เสร็จ)"}, e.Names)

	var found bool
	for _, s := range report.Audit.Suspicious {
		if s.Entity == "E0001" {
			found = true
			assert.Equal(t, "นาย PISET SAY", s.DisplayName)
		}
	}
	assert.True(t, found)

	// unmatched entities keep their first-seen name and the resolver's
	// entities are left untouched
	other, err := report.Result.Entity("E0002")
	require.NoError(t, err)
	assert.Equal(t, "นาง CHO ZIN", other.DisplayName)
	assert.Contains(t, resolved, "นาย เสร็จ")
	assert.NotContains(t, resolved, "นาย PISET SAY")

	dsn := filepath.Join(t.TempDir(), "runs.db")
	id, err := c.Save(context.Background(), dsn, report)
	require.NoError(t, err)
	s, err := store.Open(dsn)
	require.NoError(t, err)
	defer s.Close()
	run, err := s.GetRun(context.Background(), id)
	require.NoError(t, err)
	var stored string
	for _, rec := range run.EntityRecords {
		if rec.Ref == "E0001" {
			stored = rec.DisplayName
		}
	}
	assert.Equal(t, "นาย PISET SAY", stored)
}

func TestSave(t *testing.T) {
	c, err := New(WithFileReader(&sources.FSReader{FS: testFiles()}))
	require.NoError(t, err)
	report, err := c.RunFiles(context.Background(), []string{"01.2568.csv", "02.2568.csv", "03.2568.csv"})
	require.NoError(t, err)

	dsn := filepath.Join(t.TempDir(), "runs.db")
	id, err := c.Save(context.Background(), dsn, report)
	require.NoError(t, err)

	s, err := store.Open(dsn)
	require.NoError(t, err)
	defer s.Close()
	run, err := s.GetRun(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 8, run.Observations)
	assert.Len(t, run.EntityRecords, 6)

	_, err = c.Save(context.Background(), dsn, nil)
	assert.True(t, errors.IsValidationError(err))
}
