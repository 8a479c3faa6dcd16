// Package report renders a resolution run as a markdown review document for
// HR: headline counts, entities that need a human look, the master roster
// match, the merge trail and the metric traceback.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	md "github.com/nao1215/markdown"

	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

// DefaultTitle is used when a document has no title.
const DefaultTitle = "Attendance Identity Review"

// Document is everything a review document is rendered from.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Sources     []string
	Result      *resolver.Result
	Audit       *audit.Report
}

// Builder wraps the markdown package with the section helpers the review
// document needs.
type Builder struct {
	md *md.Markdown
}

// NewBuilder creates a builder writing to w.
func NewBuilder(w io.Writer) *Builder {
	return &Builder{md: md.NewMarkdown(w)}
}

// H2 adds a level 2 header
func (b *Builder) H2(text string) *Builder {
	b.md.H2(text)
	return b
}

// H3 adds a level 3 header
func (b *Builder) H3(text string) *Builder {
	b.md.H3(text)
	return b
}

// Text adds a paragraph
func (b *Builder) Text(text string) *Builder {
	b.md.PlainText(text).LF()
	return b
}

// Bullets adds a bullet list
func (b *Builder) Bullets(items ...string) *Builder {
	if len(items) > 0 {
		b.md.BulletList(items...)
	}
	return b
}

// Table adds table data. An empty table is replaced by the placeholder.
func (b *Builder) Table(data table.Data, empty string) *Builder {
	if len(data.Rows) == 0 {
		return b.Text(md.Italic(empty))
	}
	b.md.Table(md.TableSet{Header: data.Headers, Rows: escape(data.Rows)})
	return b
}

// Alert adds a GitHub-style alert
func (b *Builder) Alert(kind, text string) *Builder {
	b.md.PlainText(fmt.Sprintf("> [!%s]\n> %s", strings.ToUpper(kind), text)).LF()
	return b
}

// Build flushes the document
func (b *Builder) Build() error {
	return b.md.Build()
}

// Write renders the document as markdown. Terminal colors are disabled
// while rendering.
func Write(w io.Writer, doc Document) error {
	if doc.Result == nil || doc.Audit == nil {
		return &errors.ValidationError{Field: "document", Message: "result and audit are required"}
	}
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	title := doc.Title
	if title == "" {
		title = DefaultTitle
	}

	b := NewBuilder(w)
	b.md.H1(title)
	if !doc.GeneratedAt.IsZero() {
		b.Text(md.Italic("Generated " + doc.GeneratedAt.Format(constants.TimeFormatHuman)))
	}
	if len(doc.Sources) > 0 {
		b.Text("Sources: " + md.Code(strings.Join(doc.Sources, ", ")))
	}

	writeSummary(b, doc.Audit)
	writeSuspicious(b, doc.Audit.Suspicious)
	writeAmbiguities(b, doc.Result.Ambiguities)
	writeMatches(b, doc.Audit.Matches)

	b.H2("Merge Trail")
	b.Table(table.TrailToTableData(doc.Audit.Trail), "No entities were merged.")

	b.H2("Traceback")
	if doc.Audit.Traceback.Balanced {
		b.Alert("note", "Output metric totals equal input totals.")
	} else {
		b.Alert("caution", "Output metric totals differ from input totals.")
	}
	b.Table(table.TracebackToTableData(doc.Audit.Traceback), "No periods.")

	return b.Build()
}

func writeSummary(b *Builder, rep *audit.Report) {
	s := rep.Summary
	b.H2("Summary")
	items := []string{
		fmt.Sprintf("Periods: %d", s.Periods),
		fmt.Sprintf("Observations: %d", s.Observations),
		fmt.Sprintf("Entities: %d (%d merged)", s.Entities, s.Merged),
	}
	for _, l := range resolver.Layers() {
		items = append(items, fmt.Sprintf("%s merges: %d", l.Name(), s.MergesByLayer[l]))
	}
	items = append(items,
		fmt.Sprintf("Ambiguous matches: %d", s.Ambiguities),
		fmt.Sprintf("Suspicious entities: %d", len(rep.Suspicious)),
	)
	b.Bullets(items...)

	if len(s.TopAbsences) > 0 {
		b.H3("Top Absence Categories")
		rows := make([][]string, 0, len(s.TopAbsences))
		for _, c := range s.TopAbsences {
			rows = append(rows, []string{c.Name, table.FormatNumber(c.Total)})
		}
		b.Table(table.Data{Headers: []string{"Category", "Total"}, Rows: rows}, "")
	}
	if len(s.Departments) > 0 {
		b.H3("Departments")
		rows := make([][]string, 0, len(s.Departments))
		for _, d := range s.Departments {
			rows = append(rows, []string{d.Department, fmt.Sprintf("%d", d.Entities)})
		}
		b.Table(table.Data{Headers: []string{"Department", "Entities"}, Rows: rows}, "")
	}
}

func writeSuspicious(b *Builder, entities []audit.SuspiciousEntity) {
	b.H2("Suspicious Entities")
	b.Table(table.SuspiciousToTableData(entities), "Nothing flagged.")
}

func writeAmbiguities(b *Builder, ambiguities []resolver.Ambiguity) {
	if len(ambiguities) == 0 {
		return
	}
	b.H2("Ambiguous Matches")
	items := make([]string, 0, len(ambiguities))
	for _, a := range ambiguities {
		items = append(items, fmt.Sprintf("%s row %d %s %s: %s matched %s, kept as %s",
			a.Observation.PeriodLabel, a.Observation.Row, md.Code(a.Observation.ID), a.Observation.Name,
			a.Layer, strings.Join(a.Candidates, ", "), a.Created))
	}
	b.Bullets(items...)
}

func writeMatches(b *Builder, rec *roster.Reconciliation) {
	b.H2("Master Roster Match")
	if rec == nil {
		b.Text(md.Italic("No roster was supplied."))
		return
	}
	items := make([]string, 0, len(roster.Classifications()))
	for _, c := range roster.Classifications() {
		items = append(items, fmt.Sprintf("%s: %d", c.Name(), rec.Counts[c]))
	}
	b.Bullets(items...)
	for _, c := range rec.Collisions {
		b.Alert("warning", fmt.Sprintf("Roster record %s (%s) is claimed by %s.", c.RecordID, c.Name, strings.Join(c.Entities, ", ")))
	}
	b.Table(table.MatchesToTableData(rec), "No entities.")
}

// escape keeps cell text from breaking the table layout.
func escape(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = strings.ReplaceAll(cell, "|", `\|`)
		}
	}
	return out
}
