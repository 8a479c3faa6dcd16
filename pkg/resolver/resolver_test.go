package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/logging"
	"github.com/agentstation/rollcall/pkg/provenance"
	"github.com/agentstation/rollcall/pkg/resolver"
)

// row is a compact observation fixture.
type row struct {
	id, name string
	work     float64
	absent   float64
}

func period(ordinal int, label string, rows ...row) attendance.Period {
	p := attendance.Period{Ordinal: ordinal, Label: label}
	for i, r := range rows {
		var m attendance.Metrics
		m[attendance.WorkDays] = r.work
		m[attendance.Absent] = r.absent
		p.Observations = append(p.Observations, attendance.NewObservation(ordinal, label, i+1, r.id, r.name, m))
	}
	return p
}

func resolve(t *testing.T, periods ...attendance.Period) *resolver.Result {
	t.Helper()
	r, err := resolver.New()
	require.NoError(t, err)
	result, err := r.Resolve(context.Background(), periods)
	require.NoError(t, err)
	return result
}

func TestScenarioNicknameBridgesNameChange(t *testing.T) {
	result := resolve(t,
		period(1, "01.2568", row{id: "SBI729", name: "นาย เสร็จ", work: 20}),
		period(2, "02.2568", row{id: "SBI729", name: "นาย PISET SAY (เสร็จ)", work: 22}),
	)

	require.Len(t, result.Entities, 1)
	e := result.Entities[0]
	assert.Equal(t, []string{"SBI729"}, e.IDs)
	assert.Equal(t, []string{"นาย เสร็จ", "นาย PISET SAY (เสร็จ)"}, e.Names)
	assert.Equal(t, 42.0, e.Metrics.Get(attendance.WorkDays))

	require.Len(t, e.Events, 1)
	ev := e.Events[0]
	assert.Equal(t, resolver.LayerIDNickname, ev.Layer)
	assert.Equal(t, "เสร็จ", ev.Existing.Value)
	assert.Equal(t, "เสร็จ", ev.Incoming.Value)
	assert.Nil(t, ev.Similarity)
}

func TestScenarioSameNameDifferentIDs(t *testing.T) {
	result := resolve(t,
		period(1, "01.2568", row{id: "R88006", name: "นาย MIN MIN (เม)", work: 18, absent: 2}),
		period(2, "02.2568", row{id: "SBI2107", name: "นาย MIN MIN (เม)", work: 21}),
	)

	require.Len(t, result.Entities, 1)
	e := result.Entities[0]
	assert.Equal(t, []string{"R88006", "SBI2107"}, e.IDs)
	assert.Equal(t, resolver.LayerNameOnly, e.HighestLayer())
	assert.Equal(t, 39.0, e.Metrics.Get(attendance.WorkDays))
	assert.Equal(t, 2.0, e.Metrics.Get(attendance.Absent))
	assert.Equal(t, "01.2568", e.FirstPeriod.Label)
	assert.Equal(t, "02.2568", e.LastPeriod.Label)

	byPeriod := e.IDsByPeriod()
	require.Len(t, byPeriod, 2)
	assert.Equal(t, []string{"R88006"}, byPeriod[0].IDs)
	assert.Equal(t, []string{"SBI2107"}, byPeriod[1].IDs)
}

func TestScenarioReusedIDDifferentPeople(t *testing.T) {
	result := resolve(t,
		period(1, "01.2568", row{id: "SBI2183", name: "นาง CHO ZIN", work: 20}),
		period(2, "02.2568", row{id: "SBI2183", name: "นาย YE KYAW PAING", work: 19}),
	)

	require.Len(t, result.Entities, 2)
	assert.Equal(t, []string{"นาง CHO ZIN"}, result.Entities[0].Names)
	assert.Equal(t, []string{"นาย YE KYAW PAING"}, result.Entities[1].Names)
	assert.Equal(t, 0, result.Metadata.Stats.Merges)
}

func TestLayerPriority(t *testing.T) {
	result := resolve(t,
		period(1, "01.2568",
			row{id: "A1", name: "นาย SOMCHAI JAIDEE", work: 10},
			row{id: "B2", name: "นาย SOMCHAY JAIDEE", work: 10},
		),
		// similar to the first entity under a shared ID and identical to the
		// second entity's name under a different ID
		period(2, "02.2568", row{id: "A1", name: "นาย SOMCHAY JAIDEE", work: 10}),
	)

	require.Len(t, result.Entities, 2)
	first, second := result.Entities[0], result.Entities[1]

	require.Len(t, first.Events, 1)
	assert.Equal(t, resolver.LayerIDName, first.Events[0].Layer)
	require.NotNil(t, first.Events[0].Similarity)
	assert.GreaterOrEqual(t, *first.Events[0].Similarity, 0.85)
	assert.Equal(t, 20.0, first.Metrics.Get(attendance.WorkDays))

	assert.Empty(t, second.Events)
	assert.Equal(t, 10.0, second.Metrics.Get(attendance.WorkDays))
}

func TestNicknameDisambiguation(t *testing.T) {
	tests := []struct {
		name     string
		a, b     row
		entities int
		layer    resolver.Layer
	}{
		{
			name:     "same id unrelated names shared nickname",
			a:        row{id: "X1", name: "นาย ZAW LIN (ต้น)"},
			b:        row{id: "X1", name: "นาย MYO THANT (ต้น)"},
			entities: 1,
			layer:    resolver.LayerIDNickname,
		},
		{
			name:     "same id similar names below threshold",
			a:        row{id: "X1", name: "นาย KYAW ZIN"},
			b:        row{id: "X1", name: "นาย KYAW ZAW"},
			entities: 2,
		},
		{
			name:     "same id different nicknames",
			a:        row{id: "X1", name: "นาย ZAW LIN (ต้น)"},
			b:        row{id: "X1", name: "นาย HTET AUNG (หนึ่ง)"},
			entities: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolve(t,
				period(1, "01.2568", tt.a),
				period(2, "02.2568", tt.b),
			)
			require.Len(t, result.Entities, tt.entities)
			if tt.entities == 1 {
				require.Len(t, result.Entities[0].Events, 1)
				assert.Equal(t, tt.layer, result.Entities[0].Events[0].Layer)
			}
		})
	}
}

func TestIDNameComparesDisplayName(t *testing.T) {
	// each spelling is close to the previous one, but the third is below
	// the threshold against the name the entity was first seen under
	result := resolve(t,
		period(1, "01.2568", row{id: "X1", name: "นาย SOMCHAI JAIDEE", work: 1}),
		period(2, "02.2568", row{id: "X1", name: "นาย SOMCHAY JAIDEY", work: 1}),
		period(3, "03.2568", row{id: "X1", name: "นาย SOMCHUY JOIDEY", work: 1}),
	)

	require.Len(t, result.Entities, 2)
	first, second := result.Entities[0], result.Entities[1]
	assert.Equal(t, "นาย SOMCHAI JAIDEE", first.DisplayName)
	require.Len(t, first.Events, 1)
	assert.Equal(t, "นาย|SOMCHAI|JAIDEE", first.Events[0].Existing.Value)
	require.NotNil(t, first.Events[0].Similarity)
	assert.InDelta(t, 0.889, *first.Events[0].Similarity, 0.001)

	assert.Equal(t, []string{"นาย SOMCHUY JOIDEY"}, second.Names)
	assert.Empty(t, second.Events)
	assert.Empty(t, result.Ambiguities)
}

func TestGenderSafety(t *testing.T) {
	tests := []struct {
		name string
		a, b row
	}{
		{
			name: "same id and surname",
			a:    row{id: "X1", name: "นาย SOMCHAI JAIDEE"},
			b:    row{id: "X1", name: "นาง SOMSRI JAIDEE"},
		},
		{
			name: "same id and near identical name",
			a:    row{id: "X1", name: "นาย SOMCHAI JAIDEE"},
			b:    row{id: "X1", name: "นาง SOMCHAI JAIDEE"},
		},
		{
			name: "same id and nickname",
			a:    row{id: "X1", name: "นาย AUNG KO (แดง)"},
			b:    row{id: "X1", name: "นางสาว MAY THU (แดง)"},
		},
		{
			name: "different ids and surname",
			a:    row{id: "X1", name: "นาย SOMCHAI JAIDEE"},
			b:    row{id: "Y2", name: "นาง SOMSRI JAIDEE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolve(t,
				period(1, "01.2568", tt.a),
				period(2, "02.2568", tt.b),
			)
			assert.Len(t, result.Entities, 2)
		})
	}
}

func TestAmbiguousMatchCreatesEntity(t *testing.T) {
	result := resolve(t,
		period(1, "01.2568",
			row{id: "X1", name: "นาง SOMCHAI JAIDEE", work: 1},
			row{id: "Y2", name: "นาย SOMCHAI JAIDEE", work: 1},
		),
		// links X1 to the second entity through its exact name
		period(2, "02.2568", row{id: "X1", name: "นาย SOMCHAI JAIDEE", work: 1}),
		// no prefix: similar to both entities holding X1
		period(3, "03.2568", row{id: "X1", name: "SOMCHAI JAIDEE", work: 1}),
	)

	require.Len(t, result.Entities, 3)
	require.Len(t, result.Ambiguities, 1)

	amb := result.Ambiguities[0]
	assert.Equal(t, resolver.LayerIDName, amb.Layer)
	assert.Equal(t, []string{"E0001", "E0002"}, amb.Candidates)
	assert.Equal(t, "E0003", amb.Created)
	assert.Equal(t, 1, result.Metadata.Stats.Ambiguous)

	err := result.AmbiguityErrors()
	require.Error(t, err)
	assert.True(t, errors.IsAmbiguous(err))

	assert.Equal(t, 4.0, result.OutputTotals().Get(attendance.WorkDays))
}

func TestConservation(t *testing.T) {
	periods := []attendance.Period{
		period(1, "01.2568",
			row{id: "SBI729", name: "นาย เสร็จ", work: 20.5, absent: 1},
			row{id: "SBI2183", name: "นาง CHO ZIN", work: 19},
			row{id: "R88006", name: "นาย MIN MIN (เม)", work: 18, absent: 3},
			row{id: "", name: "นาย ไม่มีรหัส", work: 5},
		),
		period(2, "02.2568",
			row{id: "SBI729", name: "นาย PISET SAY (เสร็จ)", work: 22},
			row{id: "SBI2183", name: "นาย YE KYAW PAING", work: 21.25, absent: 0.5},
			row{id: "SBI2107", name: "นาย MIN MIN (เม)", work: 21},
			row{id: "SBI729", name: "นาย PISET SAY (เสร็จ)", work: 1},
		),
	}

	result := resolve(t, periods...)
	assert.Equal(t, attendance.Totals(periods), result.OutputTotals())
	assert.Equal(t, result.InputTotals, result.OutputTotals())
	assert.NoError(t, resolver.CheckConservation(result.InputTotals, result.Entities))
	assert.Len(t, result.Entities, 5)
}

func TestCheckConservationDetectsLoss(t *testing.T) {
	result := resolve(t, period(1, "01.2568", row{id: "A", name: "นาย A B", work: 10}))

	var input attendance.Metrics
	input[attendance.WorkDays] = 11
	err := resolver.CheckConservation(input, result.Entities)
	require.Error(t, err)
	assert.True(t, errors.IsInvariantError(err))
	assert.Contains(t, err.Error(), "work_days")
}

func TestIdempotentRemerge(t *testing.T) {
	first := resolve(t,
		period(1, "01.2568",
			row{id: "SBI729", name: "นาย เสร็จ", work: 20},
			row{id: "SBI2183", name: "นาง CHO ZIN", work: 19},
			row{id: "R88006", name: "นาย MIN MIN (เม)", work: 18},
		),
		period(2, "02.2568",
			row{id: "SBI729", name: "นาย PISET SAY (เสร็จ)", work: 22},
			row{id: "SBI2183", name: "นาย YE KYAW PAING", work: 21},
			row{id: "SBI2107", name: "นาย MIN MIN (เม)", work: 21},
		),
	)

	second := resolve(t, first.AsPeriod(1, "snapshot"))
	assert.Len(t, second.Entities, len(first.Entities))
	assert.Equal(t, 0, second.Metadata.Stats.Merges)
	assert.Equal(t, first.OutputTotals(), second.OutputTotals())
}

func TestResolveValidation(t *testing.T) {
	r, err := resolver.New()
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), []attendance.Period{
		period(2, "02.2568"),
		period(1, "01.2568"),
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = r.Resolve(context.Background(), []attendance.Period{
		period(1, "01.2568"),
		period(1, "01.2568-b"),
	})
	assert.True(t, errors.IsValidationError(err))

	empty, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Entities)
}

func TestOptions(t *testing.T) {
	_, err := resolver.New(resolver.WithThreshold(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = resolver.New(resolver.WithThreshold(1.5))
	assert.True(t, errors.IsValidationError(err))

	// a strict threshold keeps romanization variants apart
	r, err := resolver.New(resolver.WithThreshold(0.99), resolver.WithProvenance(false))
	require.NoError(t, err)
	result, err := r.Resolve(context.Background(), []attendance.Period{
		period(1, "01.2568", row{id: "A1", name: "นาย SOMCHAI JAIDEE"}),
		period(2, "02.2568", row{id: "A1", name: "นาย SOMCHAY JAIDEE"}),
	})
	require.NoError(t, err)
	assert.Len(t, result.Entities, 2)
	assert.Empty(t, result.Provenance)
}

func TestProvenanceTracking(t *testing.T) {
	result := resolve(t,
		period(1, "01.2568", row{id: "R88006", name: "นาย MIN MIN (เม)"}),
		period(2, "02.2568", row{id: "SBI2107", name: "นาย MIN MIN (เม)/ย้ายมา"}),
	)

	fields := result.Provenance.Entity("E0001")
	require.Len(t, fields[provenance.FieldID], 2)
	assert.Equal(t, "created", fields[provenance.FieldID][0].Reason)
	assert.Equal(t, "name-only", fields[provenance.FieldID][1].Reason)
	require.Len(t, fields[provenance.FieldNote], 1)
	assert.Equal(t, "ย้ายมา", fields[provenance.FieldNote][0].Value)
	assert.Equal(t, []string{"ย้ายมา"}, result.Entities[0].Notes)
}

func TestResolveLogsSummary(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	r, err := resolver.New()
	require.NoError(t, err)
	_, err = r.Resolve(ctx, []attendance.Period{period(1, "01.2568", row{id: "A", name: "นาย A B"})})
	require.NoError(t, err)

	tl.AssertContains(t, "Resolution complete")
	tl.AssertContains(t, `"entities":1`)
}

func TestFoldAndSummary(t *testing.T) {
	p1 := period(1, "01.2568", row{id: "SBI729", name: "นาย เสร็จ"})
	p2 := period(2, "02.2568", row{id: "SBI729", name: "นาย PISET SAY (เสร็จ)"})

	state := resolver.Fold(0.85, append(p1.Observations, p2.Observations...)...)
	assert.Equal(t, 1, state.Len())

	result := resolve(t, p1, p2)
	assert.Contains(t, result.Summary(), "2 observations across 2 periods resolved to 1 entities")
	assert.Contains(t, result.Summary(), "id+nickname 1")

	e, err := result.Entity("E0001")
	require.NoError(t, err)
	assert.Equal(t, "นาย เสร็จ", e.DisplayName)
	_, err = result.Entity("E9999")
	assert.True(t, errors.IsNotFound(err))
}

func TestLayerText(t *testing.T) {
	for _, l := range resolver.Layers() {
		text, err := l.MarshalText()
		require.NoError(t, err)
		var back resolver.Layer
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, l, back)
	}
	assert.True(t, resolver.LayerIDName.Stronger(resolver.LayerNameOnly))
	assert.False(t, resolver.LayerNone.Stronger(resolver.LayerNameOnly))
	assert.Equal(t, "ID + Nickname", resolver.LayerIDNickname.Name())
}
