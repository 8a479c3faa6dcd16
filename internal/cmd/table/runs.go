package table

import (
	"fmt"

	"github.com/agentstation/rollcall/internal/store"
	"github.com/agentstation/rollcall/pkg/constants"
)

// RunsToTableData converts stored runs to table format.
func RunsToTableData(runs []store.Run) Data {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID[:min(8, len(r.ID))],
			r.CreatedAt.Local().Format(constants.TimeFormatHuman),
			fmt.Sprintf("%d", r.Periods),
			fmt.Sprintf("%d", r.Observations),
			fmt.Sprintf("%d", r.Entities),
			fmt.Sprintf("%d", r.Merges),
			fmt.Sprintf("%d", r.Suspicious),
			fmt.Sprintf("%.2f", r.Threshold),
		})
	}
	return Data{
		Headers:         []string{"Run", "Created", "Periods", "Observations", "Entities", "Merges", "Suspicious", "Threshold"},
		Rows:            rows,
		ColumnAlignment: aligned(8, 2, 3, 4, 5, 6, 7),
	}
}

// RunEntitiesToTableData converts the stored entities of a run to table
// format.
func RunEntitiesToTableData(records []store.EntityRecord) Data {
	rows := make([][]string, 0, len(records))
	for _, e := range records {
		rows = append(rows, []string{
			e.Ref,
			orDash(e.OutputID),
			e.DisplayName,
			JoinOrDash(e.IDList(), ", "),
			orDash(e.Department),
			e.FirstPeriod + " → " + e.LastPeriod,
			FormatNumber(e.Metrics.Metrics().Total()),
		})
	}
	return Data{
		Headers:         []string{"Ref", "Output ID", "Name", "IDs", "Department", "Periods", "Total"},
		Rows:            rows,
		ColumnAlignment: aligned(7, 6),
	}
}
