package table

import (
	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/resolver"
)

// summaryCategories are the metric columns shown in the narrow entity table.
var summaryCategories = []attendance.Category{
	attendance.WorkDays,
	attendance.Absent,
	attendance.PersonalLeave,
	attendance.SickWithCertificate,
	attendance.SickWithoutCertificate,
}

// EntitiesToTableData converts resolved entities to table format. outputIDs
// may be nil, in which case each entity's first ID is shown. Wide output
// includes every metric category, all observed names and notes.
func EntitiesToTableData(entities []*resolver.Entity, outputIDs map[string]string, wide bool) Data {
	categories := summaryCategories
	if wide {
		categories = attendance.Categories()
	}

	headers := []string{"Ref", "ID", "Name", "Department", "Periods"}
	for _, c := range categories {
		headers = append(headers, c.Name())
	}
	if wide {
		headers = append(headers, "All IDs", "All Names", "Notes")
	}

	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		id := e.PrimaryID()
		if outputIDs != nil {
			id = outputIDs[e.Ref]
		}
		periods := e.FirstPeriod.Label
		if e.LastPeriod.Ordinal != e.FirstPeriod.Ordinal {
			periods += " - " + e.LastPeriod.Label
		}

		row := []string{e.Ref, orDash(id), e.DisplayName, orDash(e.Department), periods}
		for _, c := range categories {
			row = append(row, FormatNumber(e.Metrics.Get(c)))
		}
		if wide {
			row = append(row, JoinOrDash(e.IDs, ", "), JoinOrDash(e.Names, " | "), JoinOrDash(e.Notes, " | "))
		}
		rows = append(rows, row)
	}

	right := make([]int, len(categories))
	for i := range categories {
		right[i] = 5 + i
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: aligned(len(headers), right...),
	}
}
