package sources

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/roster"
)

type rosterEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// parseRoster decodes a master roster. Rows missing an ID or a name are
// dropped by roster.New.
func parseRoster(path string, data []byte) (*roster.Roster, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return nil, &errors.ValidationError{
			Field:   "roster",
			Value:   path,
			Message: fmt.Sprintf("unsupported roster file %s (want .csv, .yaml or .yml)", path),
		}
	}

	var records []roster.Record
	switch format {
	case FormatCSV:
		r := newCSVReader(data)

		header, err := r.Read()
		if err == io.EOF {
			return roster.New(), nil
		}
		if err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		idCol, nameCol := -1, -1
		for i, h := range header {
			switch fieldHeaders[strings.ToLower(strings.TrimSpace(h))] {
			case "id":
				idCol = i
			case "name":
				nameCol = i
			}
		}
		if idCol < 0 || nameCol < 0 {
			return nil, errors.NewParseError("csv", path, "roster header needs id and name columns", nil)
		}
		for {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, errors.WrapParse("csv", path, err)
			}
			if idCol >= len(rec) || nameCol >= len(rec) {
				continue
			}
			records = append(records, roster.NewRecord(strings.TrimSpace(rec[idCol]), strings.TrimSpace(rec[nameCol])))
		}
	case FormatYAML:
		var entries []rosterEntry
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
		for _, e := range entries {
			records = append(records, roster.NewRecord(strings.TrimSpace(e.ID), strings.TrimSpace(e.Name)))
		}
	}
	return roster.New(records...), nil
}
