// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/rollcall/internal/cmd/table"
	"github.com/agentstation/rollcall/pkg/errors"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatWide represents wide table output format.
	FormatWide Format = "wide"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatMarkdown represents markdown table output format.
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatTable, FormatWide, FormatJSON, FormatYAML, FormatMarkdown}
}

// IsTabular reports whether the format renders table.Data rather than the
// raw value.
func (f Format) IsTabular() bool {
	switch f {
	case FormatTable, FormatWide, FormatMarkdown, "":
		return true
	default:
		return false
	}
}

// Data represents data formatted for table output.
type Data = table.Data

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{Wide: format == FormatWide}
	}
}

// Write renders one command result. Tabular formats get rows, the others
// get the raw value.
func Write(w io.Writer, format Format, rows Data, raw any) error {
	if format.IsTabular() {
		return NewFormatter(format).Format(w, rows)
	}
	return NewFormatter(format).Format(w, raw)
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format outputs data in table format. Values that are not table.Data are
// converted by reflection when they are structs or slices of structs, and
// written as JSON otherwise.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if d, ok := data.(Data); ok {
		return renderTable(w, d)
	}
	if d, ok := toTableData(data); ok {
		return renderTable(w, d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func renderTable(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			switch a {
			case table.AlignLeft:
				align[i] = tw.AlignLeft
			case table.AlignCenter:
				align[i] = tw.AlignCenter
			case table.AlignRight:
				align[i] = tw.AlignRight
			default:
				align[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(data.Headers) > 0 {
		tbl.Header(cells(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := tbl.Append(cells(row)...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

func cells(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	// pipes and redirects get JSON
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatTable, FormatWide, FormatJSON, FormatYAML, FormatMarkdown, "":
		return format, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", &errors.ValidationError{
			Field:   "format",
			Value:   s,
			Message: fmt.Sprintf("invalid format %q: must be one of: table, wide, json, yaml, markdown", s),
		}
	}
}

// toTableData converts a struct or a slice of structs using reflection.
// A slice becomes one row per element; a single struct becomes a
// property/value table.
func toTableData(data any) (Data, bool) {
	v := reflect.Indirect(reflect.ValueOf(data))
	switch {
	case v.Kind() == reflect.Slice && v.Len() > 0 && reflect.Indirect(v.Index(0)).Kind() == reflect.Struct:
		elemType := reflect.Indirect(v.Index(0)).Type()
		fields := exportedFields(elemType)

		headers := make([]string, len(fields))
		for i, idx := range fields {
			headers[i] = headerName(elemType.Field(idx))
		}
		rows := make([][]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem := reflect.Indirect(v.Index(i))
			row := make([]string, len(fields))
			for j, idx := range fields {
				row[j] = fmt.Sprintf("%v", elem.Field(idx).Interface())
			}
			rows = append(rows, row)
		}
		return Data{Headers: headers, Rows: rows}, true

	case v.Kind() == reflect.Struct:
		t := v.Type()
		var rows [][]string
		for _, idx := range exportedFields(t) {
			rows = append(rows, []string{headerName(t.Field(idx)), fmt.Sprintf("%v", v.Field(idx).Interface())})
		}
		return Data{Headers: []string{"Property", "Value"}, Rows: rows}, true
	}
	return Data{}, false
}

func exportedFields(t reflect.Type) []int {
	var out []int
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && f.Tag.Get("json") != "-" {
			out = append(out, i)
		}
	}
	return out
}

// headerName titles the json tag of a field, or returns the field name.
func headerName(field reflect.StructField) string {
	tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if tag == "" {
		return field.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(tag, "_", " "))
}
