package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/resolver"
)

func obs(period, row int, id, name, department string) attendance.Observation {
	var m attendance.Metrics
	m[attendance.WorkDays] = 20
	o := attendance.NewObservation(period, "", row, id, name, m)
	o.Department = department
	return o
}

// fixture resolves three people: SBI729 merged by nickname, SBI2183 on
// its own, and P-77 who only appears in the second period.
func fixture(t *testing.T) (*resolver.Result, *audit.Report) {
	t.Helper()
	periods := []attendance.Period{
		{Ordinal: 1, Label: "01.2568", Observations: []attendance.Observation{
			obs(1, 1, "SBI729", "นาย เสร็จ", "ทอ"),
			obs(1, 2, "SBI2183", "นาง CHO ZIN", "ย้อม"),
		}},
		{Ordinal: 2, Label: "02.2568", Observations: []attendance.Observation{
			obs(2, 1, "SBI729", "นาย PISET SAY (เสร็จ)", "ทอ"),
			obs(2, 2, "P-77", "นางสาว มาลี ศรีสุข", "ย้อม"),
		}},
	}
	for i := range periods {
		for j := range periods[i].Observations {
			periods[i].Observations[j].PeriodLabel = periods[i].Label
		}
	}
	r, err := resolver.New()
	require.NoError(t, err)
	result, err := r.Resolve(context.Background(), periods)
	require.NoError(t, err)
	require.Len(t, result.Entities, 3)
	return result, audit.Build(periods, result, nil)
}

func refs(entities []*resolver.Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Ref)
	}
	return out
}

func TestEntityFilter(t *testing.T) {
	result, _ := fixture(t)

	tests := []struct {
		name   string
		filter *EntityFilter
		want   []string
	}{
		{"nil", nil, []string{"E0001", "E0002", "E0003"}},
		{"empty", &EntityFilter{}, []string{"E0001", "E0002", "E0003"}},
		{"merged", &EntityFilter{MergedOnly: true}, []string{"E0001"}},
		{"layer", &EntityFilter{Layer: resolver.LayerIDNickname}, []string{"E0001"}},
		{"department", &EntityFilter{Department: "ย้อม"}, []string{"E0002", "E0003"}},
		{"search id", &EntityFilter{Search: "sbi2183"}, []string{"E0002"}},
		{"search name", &EntityFilter{Search: "piset"}, []string{"E0001"}},
		{"search ref", &EntityFilter{Search: "E0003"}, []string{"E0003"}},
		{"combined", &EntityFilter{Department: "ย้อม", Search: "มาลี"}, []string{"E0003"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refs(tt.filter.Apply(result.Entities)))
		})
	}

	assert.Empty(t, (&EntityFilter{Search: "nobody"}).Apply(result.Entities))
}

func TestSuspiciousFilter(t *testing.T) {
	_, rep := fixture(t)
	require.NotEmpty(t, rep.Suspicious)

	got := (&SuspiciousFilter{Flag: audit.FlagMultipleNames}).Apply(rep.Suspicious)
	require.Len(t, got, 1)
	assert.Equal(t, "E0001", got[0].Entity)

	assert.Empty(t, (&SuspiciousFilter{Flag: audit.FlagResigned}).Apply(rep.Suspicious))
	assert.Len(t, (&SuspiciousFilter{Search: "sbi729"}).Apply(rep.Suspicious), 1)

	var nilFilter *SuspiciousFilter
	assert.Equal(t, rep.Suspicious, nilFilter.Apply(rep.Suspicious))
}

func TestTrailFilter(t *testing.T) {
	_, rep := fixture(t)
	require.Len(t, rep.Trail, 1)

	assert.Len(t, (&TrailFilter{Layer: resolver.LayerIDNickname}).Apply(rep.Trail), 1)
	assert.Empty(t, (&TrailFilter{Layer: resolver.LayerNameOnly}).Apply(rep.Trail))
	assert.Len(t, (&TrailFilter{Search: "SBI729"}).Apply(rep.Trail), 1)
	assert.Empty(t, (&TrailFilter{Search: "P-77"}).Apply(rep.Trail))
}
