package audit

import (
	"sort"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

// topN bounds the category and department lists in a summary.
const topN = 5

// Summary is the headline view of a run.
type Summary struct {
	Periods       int                           `json:"periods" yaml:"periods"`
	Observations  int                           `json:"observations" yaml:"observations"`
	Entities      int                           `json:"entities" yaml:"entities"`
	Merged        int                           `json:"merged" yaml:"merged"`
	MergesByLayer map[resolver.Layer]int        `json:"merges_by_layer" yaml:"merges_by_layer"`
	Ambiguities   int                           `json:"ambiguities" yaml:"ambiguities"`
	Matches       map[roster.Classification]int `json:"matches,omitempty" yaml:"matches,omitempty"`
	TopAbsences   []CategoryTotal               `json:"top_absences" yaml:"top_absences"`
	Departments   []DepartmentCount             `json:"departments" yaml:"departments"`
}

// CategoryTotal is the total of one metric category.
type CategoryTotal struct {
	Category attendance.Category `json:"category" yaml:"category"`
	Name     string              `json:"name" yaml:"name"`
	Total    float64             `json:"total" yaml:"total"`
}

// DepartmentCount is the number of entities in a department.
type DepartmentCount struct {
	Department string `json:"department" yaml:"department"`
	Entities   int    `json:"entities" yaml:"entities"`
}

// absenceCategories are the categories that count as time away from work.
var absenceCategories = []attendance.Category{
	attendance.Absent,
	attendance.PersonalLeave,
	attendance.SickWithCertificate,
	attendance.SickWithoutCertificate,
	attendance.Maternity,
	attendance.LateGrace,
	attendance.LatePenalty,
	attendance.OTLeave,
	attendance.Suspension,
	attendance.AnnualLeave,
}

// Summarize computes headline counts, the largest absence categories and
// the departments holding the most entities.
func Summarize(periods []attendance.Period, result *resolver.Result, rec *roster.Reconciliation) Summary {
	s := Summary{
		Periods:       len(periods),
		Observations:  result.Metadata.Stats.ObservationsProcessed,
		Entities:      len(result.Entities),
		MergesByLayer: result.Metadata.Stats.MergesByLayer,
		Ambiguities:   len(result.Ambiguities),
	}
	for _, e := range result.Entities {
		if e.Merged() {
			s.Merged++
		}
	}
	if rec != nil {
		s.Matches = rec.Counts
	}

	totals := result.OutputTotals()
	for _, c := range absenceCategories {
		if v := totals.Get(c); v > 0 {
			s.TopAbsences = append(s.TopAbsences, CategoryTotal{Category: c, Name: c.Name(), Total: v})
		}
	}
	sort.SliceStable(s.TopAbsences, func(i, j int) bool {
		return s.TopAbsences[i].Total > s.TopAbsences[j].Total
	})
	if len(s.TopAbsences) > topN {
		s.TopAbsences = s.TopAbsences[:topN]
	}

	depts := make(map[string]int)
	for _, e := range result.Entities {
		if e.Department != "" {
			depts[e.Department]++
		}
	}
	for d, n := range depts {
		s.Departments = append(s.Departments, DepartmentCount{Department: d, Entities: n})
	}
	sort.Slice(s.Departments, func(i, j int) bool {
		if s.Departments[i].Entities != s.Departments[j].Entities {
			return s.Departments[i].Entities > s.Departments[j].Entities
		}
		return s.Departments[i].Department < s.Departments[j].Department
	})
	if len(s.Departments) > topN {
		s.Departments = s.Departments[:topN]
	}
	return s
}
