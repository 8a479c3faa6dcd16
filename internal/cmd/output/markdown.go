package output

import (
	"io"
	"strings"

	md "github.com/nao1215/markdown"
)

// MarkdownFormatter outputs GitHub-flavored markdown tables.
type MarkdownFormatter struct{}

// Format renders table data as a markdown table. Other values are written
// as a fenced JSON block.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	d, ok := data.(Data)
	if !ok {
		if d, ok = toTableData(data); !ok {
			return f.codeBlock(w, data)
		}
	}
	rows := d.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return md.NewMarkdown(w).
		Table(md.TableSet{Header: d.Headers, Rows: rows}).
		Build()
}

func (f *MarkdownFormatter) codeBlock(w io.Writer, data any) error {
	var buf strings.Builder
	if err := (&JSONFormatter{Indent: "  "}).Format(&buf, data); err != nil {
		return err
	}
	return md.NewMarkdown(w).
		CodeBlocks(md.SyntaxHighlight("json"), buf.String()).
		Build()
}
