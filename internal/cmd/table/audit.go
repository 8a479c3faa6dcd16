package table

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/roster"
)

var flagColors = map[audit.Flag]*color.Color{
	audit.FlagMultipleIDs:     color.New(color.FgYellow),
	audit.FlagMultipleNames:   color.New(color.FgCyan),
	audit.FlagResigned:        color.New(color.FgRed),
	audit.FlagRestarted:       color.New(color.FgMagenta),
	audit.FlagTransferred:     color.New(color.FgBlue),
	audit.FlagAmbiguous:       color.New(color.FgRed, color.Bold),
	audit.FlagRosterCollision: color.New(color.FgRed, color.Bold),
}

// FlagCell renders flags, colored when color output is enabled.
func FlagCell(flags []audit.Flag) string {
	parts := make([]string, len(flags))
	for i, f := range flags {
		if c, ok := flagColors[f]; ok {
			parts[i] = c.Sprint(string(f))
		} else {
			parts[i] = string(f)
		}
	}
	return strings.Join(parts, ", ")
}

// SuspiciousToTableData converts flagged entities to table format.
func SuspiciousToTableData(entities []audit.SuspiciousEntity) Data {
	rows := make([][]string, 0, len(entities))
	for _, s := range entities {
		rows = append(rows, []string{
			s.Entity,
			s.DisplayName,
			JoinOrDash(s.IDs, ", "),
			JoinOrDash(s.Names, " | "),
			JoinOrDash(s.Notes, " | "),
			FlagCell(s.Flags),
		})
	}
	return Data{
		Headers: []string{"Ref", "Name", "IDs", "Names", "Notes", "Flags"},
		Rows:    rows,
	}
}

// TrailToTableData converts a merge trail to table format with one ID
// column per period.
func TrailToTableData(trail []audit.TrailEntry) Data {
	periods := audit.TrailPeriods(trail)
	headers := []string{"Ref", "Name", "Layer", "Merges"}
	for _, p := range periods {
		headers = append(headers, p.Label)
	}

	rows := make([][]string, 0, len(trail))
	for _, t := range trail {
		row := []string{t.Entity, t.DisplayName, t.HighestLayer.String(), fmt.Sprintf("%d", t.Merges)}
		for _, p := range periods {
			row = append(row, JoinOrDash(t.IDsIn(p.Ordinal), ", "))
		}
		rows = append(rows, row)
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: aligned(len(headers), 3),
	}
}

// tracebackCategories are the metric columns of the traceback table.
var tracebackCategories = []attendance.Category{
	attendance.WorkDays,
	attendance.Absent,
	attendance.PersonalLeave,
	attendance.SickWithCertificate,
	attendance.OT25Hours,
}

// TracebackToTableData converts a traceback to table format: one row per
// input period, then the input and output totals.
func TracebackToTableData(tb audit.Traceback) Data {
	headers := []string{"Period", "Source", "Rows"}
	for _, c := range tracebackCategories {
		headers = append(headers, c.Name())
	}
	headers = append(headers, "Total")

	metricCells := func(m attendance.Metrics) []string {
		var cells []string
		for _, c := range tracebackCategories {
			cells = append(cells, FormatNumber(m.Get(c)))
		}
		return append(cells, FormatNumber(m.Total()))
	}

	var rows [][]string
	for _, p := range tb.Periods {
		row := []string{p.Period.Label, orDash(p.Source), fmt.Sprintf("%d", p.Observations)}
		rows = append(rows, append(row, metricCells(p.Totals)...))
	}
	rows = append(rows, append([]string{"input", "", fmt.Sprintf("%d", tb.Observations)}, metricCells(tb.InputTotals)...))

	status := "balanced"
	if !tb.Balanced {
		status = color.New(color.FgRed, color.Bold).Sprint("MISMATCH")
	}
	rows = append(rows, append([]string{"output", status, fmt.Sprintf("%d", tb.Entities)}, metricCells(tb.OutputTotals)...))

	right := []int{2}
	for i := 0; i <= len(tracebackCategories); i++ {
		right = append(right, 3+i)
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: aligned(len(headers), right...),
	}
}

// MatchesToTableData converts a roster reconciliation to table format.
func MatchesToTableData(rec *roster.Reconciliation) Data {
	if rec == nil {
		return Data{Headers: []string{"Ref", "Entity IDs", "Entity Name", "Match", "Roster ID", "Roster Name", "Similarity", "Note"}}
	}
	rows := make([][]string, 0, len(rec.Results))
	for _, m := range rec.Results {
		rosterID, rosterName, sim := "-", "-", "-"
		if m.Record != nil {
			rosterID = m.Record.ID
			rosterName = m.CanonicalName()
			sim = fmt.Sprintf("%.0f%%", m.Similarity*100)
		}
		rows = append(rows, []string{
			m.Entity,
			JoinOrDash(m.EntityIDs, ", "),
			m.EntityName,
			m.Classification.Name(),
			rosterID,
			rosterName,
			sim,
			orDash(m.Note),
		})
	}
	return Data{
		Headers:         []string{"Ref", "Entity IDs", "Entity Name", "Match", "Roster ID", "Roster Name", "Similarity", "Note"},
		Rows:            rows,
		ColumnAlignment: aligned(8, 6),
	}
}
