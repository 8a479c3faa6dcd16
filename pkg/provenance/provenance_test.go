package provenance_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rollcall/pkg/provenance"
)

func TestTracker(t *testing.T) {
	tr := provenance.NewTracker(true)
	tr.Track("E0001", provenance.FieldID, provenance.Provenance{Period: 1, PeriodLabel: "01.2568", Row: 3, Value: "R88006", Reason: "created"})
	tr.Track("E0001", provenance.FieldID, provenance.Provenance{Period: 2, PeriodLabel: "02.2568", Row: 7, Value: "SBI2107", Reason: "name-only"})
	tr.Track("E0001", provenance.FieldName, provenance.Provenance{Period: 1, PeriodLabel: "01.2568", Row: 3, Value: "นาย MIN MIN (เม)", Reason: "created"})
	tr.Track("E0002", provenance.FieldID, provenance.Provenance{Period: 1, Value: "SBI729"})

	ids := tr.FindByField("E0001", provenance.FieldID)
	require.Len(t, ids, 2)
	assert.Equal(t, "SBI2107", ids[1].Value)

	fields := tr.FindByEntity("E0001")
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, provenance.FieldName)

	m := tr.Map()
	assert.Len(t, m, 3)
	m["E0001:id"] = nil
	assert.Len(t, tr.FindByField("E0001", provenance.FieldID), 2, "Map must return a copy")

	tr.Clear()
	assert.Empty(t, tr.Map())
}

func TestDisabledTracker(t *testing.T) {
	tr := provenance.NewTracker(false)
	tr.Track("E0001", provenance.FieldID, provenance.Provenance{Value: "X"})
	assert.Nil(t, tr.FindByField("E0001", provenance.FieldID))
	assert.Nil(t, tr.FindByEntity("E0001"))
	assert.Nil(t, tr.Map())
}

func TestGenerateReport(t *testing.T) {
	m := provenance.Map{
		"E0001:id": {
			{Period: 2, PeriodLabel: "02.2568", Row: 7, Value: "SBI2107", Reason: "name-only"},
			{Period: 1, PeriodLabel: "01.2568", Row: 3, Value: "R88006", Reason: "created"},
		},
		"E0002:id": {
			{Period: 1, PeriodLabel: "01.2568", Row: 4, Value: "SBI729", Reason: "created"},
			{Period: 2, PeriodLabel: "02.2568", Row: 9, Value: "SBI729", Reason: "id+nickname"},
		},
	}

	report := provenance.GenerateReport(m)
	require.Len(t, report.Entities, 2)

	e1 := report.Entities["E0001"].Fields[provenance.FieldID]
	assert.Equal(t, []string{"R88006", "SBI2107"}, e1.Distinct)
	assert.True(t, e1.Conflicting())

	e2 := report.Entities["E0002"].Fields[provenance.FieldID]
	assert.False(t, e2.Conflicting())

	out := report.String()
	assert.Contains(t, out, "Provenance Report")
	assert.Contains(t, out, "02.2568 row 7: SBI2107 (name-only)")
	assert.NotContains(t, out, "id+nickname")
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provenance.yaml")
	m := provenance.Map{
		"E0001:name": {{Period: 1, PeriodLabel: "01.2568", Row: 1, Value: "นาย เสร็จ", Reason: "created"}},
	}
	require.NoError(t, provenance.Save(path, m))

	loaded, err := provenance.Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, m, loaded.Provenance)

	missing, err := provenance.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
