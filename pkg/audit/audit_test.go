package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

func obs(period int, label string, row int, id, name, dept string, work, absent, sick float64) attendance.Observation {
	var m attendance.Metrics
	m[attendance.WorkDays] = work
	m[attendance.Absent] = absent
	m[attendance.SickWithCertificate] = sick
	o := attendance.NewObservation(period, label, row, id, name, m)
	o.Department = dept
	return o
}

func fixture(t *testing.T) ([]attendance.Period, *resolver.Result) {
	t.Helper()
	periods := []attendance.Period{
		{Ordinal: 1, Label: "01.2568", Source: "01.2568.csv", Observations: []attendance.Observation{
			obs(1, "01.2568", 1, "SBI729", "นาย เสร็จ", "ทอ", 20, 1, 0),
			obs(1, "01.2568", 2, "SBI2183", "นาง CHO ZIN", "ย้อม", 19, 0, 2),
			obs(1, "01.2568", 3, "R88006", "นาย MIN MIN (เม)", "ทอ", 18, 2, 0),
		}},
		{Ordinal: 2, Label: "02.2568", Source: "02.2568.csv", Observations: []attendance.Observation{
			obs(2, "02.2568", 1, "SBI729", "นาย PISET SAY (เสร็จ)", "ทอ", 22, 0, 0),
			obs(2, "02.2568", 2, "SBI2183", "นาย YE KYAW PAING", "ย้อม", 21, 0, 0),
			obs(2, "02.2568", 3, "SBI2107", "นาย MIN MIN (เม)/ย้ายมา", "ทอ", 21, 0, 2),
			obs(2, "02.2568", 4, "Q1", "นาง DAW AYE/ลาออก 27/02", "", 5, 0, 0),
		}},
	}
	r, err := resolver.New()
	require.NoError(t, err)
	result, err := r.Resolve(context.Background(), periods)
	require.NoError(t, err)
	require.Len(t, result.Entities, 5)
	return periods, result
}

func TestSuspicious(t *testing.T) {
	_, result := fixture(t)

	sus := audit.Suspicious(result, nil)
	byRef := make(map[string]audit.SuspiciousEntity)
	for _, s := range sus {
		byRef[s.Entity] = s
	}

	// E0001 was seen under two names
	require.Contains(t, byRef, "E0001")
	assert.Equal(t, []audit.Flag{audit.FlagMultipleNames}, byRef["E0001"].Flags)

	// E0003 carries two IDs, two raw names and a transfer note
	require.Contains(t, byRef, "E0003")
	assert.True(t, byRef["E0003"].Has(audit.FlagMultipleIDs))
	assert.True(t, byRef["E0003"].Has(audit.FlagMultipleNames))
	assert.True(t, byRef["E0003"].Has(audit.FlagTransferred))

	// E0005 resigned
	require.Contains(t, byRef, "E0005")
	assert.Equal(t, []audit.Flag{audit.FlagResigned}, byRef["E0005"].Flags)

	// the two people sharing SBI2183 are separate and unremarkable
	assert.NotContains(t, byRef, "E0002")
	assert.NotContains(t, byRef, "E0004")
}

func TestSuspiciousAmbiguityAndCollision(t *testing.T) {
	periods := []attendance.Period{
		{Ordinal: 1, Label: "01", Observations: []attendance.Observation{
			obs(1, "01", 1, "X1", "นาง SOMCHAI JAIDEE", "", 1, 0, 0),
			obs(1, "01", 2, "Y2", "นาย SOMCHAI JAIDEE", "", 1, 0, 0),
		}},
		{Ordinal: 2, Label: "02", Observations: []attendance.Observation{
			obs(2, "02", 1, "X1", "นาย SOMCHAI JAIDEE", "", 1, 0, 0),
		}},
		{Ordinal: 3, Label: "03", Observations: []attendance.Observation{
			obs(3, "03", 1, "X1", "SOMCHAI JAIDEE", "", 1, 0, 0),
		}},
	}
	r, err := resolver.New()
	require.NoError(t, err)
	result, err := r.Resolve(context.Background(), periods)
	require.NoError(t, err)

	rec := &roster.Reconciliation{
		Collisions: []roster.Collision{{RecordID: "X1", Entities: []string{"E0001", "E0003"}}},
	}

	sus := audit.Suspicious(result, rec)
	require.Len(t, sus, 3)
	for _, s := range sus {
		assert.True(t, s.Has(audit.FlagAmbiguous), s.Entity)
	}
	assert.True(t, sus[0].Has(audit.FlagRosterCollision))
	assert.False(t, sus[1].Has(audit.FlagRosterCollision))
	assert.True(t, sus[2].Has(audit.FlagRosterCollision))
}

func TestMergeTrail(t *testing.T) {
	_, result := fixture(t)

	trail := audit.MergeTrail(result.Entities)
	require.Len(t, trail, 2)

	assert.Equal(t, "E0001", trail[0].Entity)
	assert.Equal(t, resolver.LayerIDNickname, trail[0].HighestLayer)
	assert.Equal(t, []string{"นาย เสร็จ", "นาย PISET SAY (เสร็จ)"}, trail[0].Names)

	assert.Equal(t, "E0003", trail[1].Entity)
	assert.Equal(t, resolver.LayerNameOnly, trail[1].HighestLayer)
	assert.Equal(t, []string{"R88006"}, trail[1].IDsIn(1))
	assert.Equal(t, []string{"SBI2107"}, trail[1].IDsIn(2))
	assert.Nil(t, trail[1].IDsIn(3))

	periods := audit.TrailPeriods(trail)
	require.Len(t, periods, 2)
	assert.Equal(t, "01.2568", periods[0].Label)
}

func TestTraceback(t *testing.T) {
	periods, result := fixture(t)

	tb := audit.NewTraceback(periods, result)
	assert.True(t, tb.Balanced)
	assert.Equal(t, 7, tb.Observations)
	assert.Equal(t, 5, tb.Entities)
	require.Len(t, tb.Periods, 2)
	assert.Equal(t, 57.0, tb.Periods[0].Totals.Get(attendance.WorkDays))
	assert.Equal(t, 69.0, tb.Periods[1].Totals.Get(attendance.WorkDays))
	assert.Equal(t, tb.InputTotals, tb.OutputTotals)
	assert.Equal(t, "02.2568.csv", tb.Periods[1].Source)
}

func TestOutputIDs(t *testing.T) {
	_, result := fixture(t)

	ids := audit.OutputIDs(result.Entities, nil)
	assert.Equal(t, "SBI729", ids["E0001"])
	assert.Equal(t, "SBI2183", ids["E0002"])
	assert.Equal(t, "R88006", ids["E0003"])
	assert.Equal(t, "SBI2183-A", ids["E0004"])
	assert.Equal(t, "Q1", ids["E0005"])

	m, err := roster.NewMatcher(roster.New(
		roster.NewRecord("SBI2183", "นาย YE KYAW PAING"),
		roster.NewRecord("SBI2107", "นาย MIN MIN"),
	))
	require.NoError(t, err)
	rec := m.MatchAll(context.Background(), result.Entities)

	ids = audit.OutputIDs(result.Entities, rec)
	assert.Equal(t, "SBI2107", ids["E0003"], "a matched entity takes the roster ID")
	assert.Equal(t, "SBI2183", ids["E0002"])
	assert.Equal(t, "SBI2183-A", ids["E0004"])
}

func TestSummarizeAndBuild(t *testing.T) {
	periods, result := fixture(t)

	report := audit.Build(periods, result, nil)
	s := report.Summary
	assert.Equal(t, 2, s.Periods)
	assert.Equal(t, 7, s.Observations)
	assert.Equal(t, 5, s.Entities)
	assert.Equal(t, 2, s.Merged)
	assert.Nil(t, s.Matches)

	require.Len(t, s.TopAbsences, 2)
	assert.Equal(t, attendance.SickWithCertificate, s.TopAbsences[0].Category)
	assert.Equal(t, 4.0, s.TopAbsences[0].Total)
	assert.Equal(t, attendance.Absent, s.TopAbsences[1].Category)
	assert.Equal(t, 3.0, s.TopAbsences[1].Total)

	require.Len(t, s.Departments, 2)
	assert.Equal(t, audit.DepartmentCount{Department: "ทอ", Entities: 2}, s.Departments[0])

	assert.Len(t, report.Trail, 2)
	assert.Len(t, report.OutputIDs, 5)
	assert.True(t, report.Traceback.Balanced)
}
