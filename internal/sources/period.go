package sources

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/errors"
)

// periodFile is the YAML layout of one period.
type periodFile struct {
	Period       int               `yaml:"period"`
	Label        string            `yaml:"label"`
	Observations []observationFile `yaml:"observations"`
}

type observationFile struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Position   string             `yaml:"position"`
	Department string             `yaml:"department"`
	PayType    string             `yaml:"pay_type"`
	Metrics    map[string]float64 `yaml:"metrics"`
}

// column headers recognized in period CSV files, besides metric categories
var fieldHeaders = map[string]string{
	"id":            "id",
	"emp_id":        "id",
	"รหัส":          "id",
	"name":          "name",
	"ชื่อ-นามสกุล":  "name",
	"position":      "position",
	"ตำแหน่ง":       "position",
	"department":    "department",
	"แผนก":          "department",
	"pay_type":      "pay_type",
	"ประเภทค่าจ้าง": "pay_type",
}

// parsePeriod decodes period data. The ordinal and label come from the file
// when present, otherwise from the file name.
func parsePeriod(path string, data []byte) (attendance.Period, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return attendance.Period{}, &errors.ValidationError{
			Field:   "path",
			Value:   path,
			Message: fmt.Sprintf("unsupported period file %s (want .csv, .yaml or .yml)", path),
		}
	}

	var (
		p   attendance.Period
		err error
	)
	switch format {
	case FormatCSV:
		p, err = parsePeriodCSV(path, data)
	case FormatYAML:
		p, err = parsePeriodYAML(path, data)
	}
	if err != nil {
		return attendance.Period{}, err
	}

	p.Source = path
	if p.Ordinal == 0 {
		n, ok := OrdinalFromName(path)
		if !ok {
			return attendance.Period{}, &errors.ValidationError{
				Field:   "period",
				Value:   path,
				Message: fmt.Sprintf("cannot determine period ordinal for %s; name the file NN.<label> or set period in the file", path),
			}
		}
		p.Ordinal = n
	}
	if p.Label == "" {
		p.Label = LabelFromName(path)
	}
	for i := range p.Observations {
		p.Observations[i].Period = p.Ordinal
		p.Observations[i].PeriodLabel = p.Label
	}
	return p, nil
}

func parsePeriodCSV(path string, data []byte) (attendance.Period, error) {
	r := newCSVReader(data)

	header, err := r.Read()
	if err == io.EOF {
		return attendance.Period{}, errors.NewParseError("csv", path, "missing header row", nil)
	}
	if err != nil {
		return attendance.Period{}, errors.WrapParse("csv", path, err)
	}

	fields := make(map[string]int)
	metrics := make(map[attendance.Category]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if f, ok := fieldHeaders[strings.ToLower(h)]; ok {
			fields[f] = i
			continue
		}
		if c, ok := attendance.ParseCategory(h); ok {
			metrics[c] = i
		}
	}
	if _, ok := fields["id"]; !ok {
		return attendance.Period{}, errors.NewParseError("csv", path, "header has no id column", nil)
	}
	if _, ok := fields["name"]; !ok {
		return attendance.Period{}, errors.NewParseError("csv", path, "header has no name column", nil)
	}

	var p attendance.Period
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return attendance.Period{}, errors.WrapParse("csv", path, err)
		}
		cell := func(field string) string {
			i, ok := fields[field]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		id, name := cell("id"), cell("name")
		if id == "" && name == "" {
			continue
		}
		row++

		var m attendance.Metrics
		for c, i := range metrics {
			if i < len(rec) {
				m[c] = ParseValue(rec[i])
			}
		}
		obs := attendance.NewObservation(0, "", row, id, name, m)
		obs.Position = cell("position")
		obs.Department = cell("department")
		obs.PayType = cell("pay_type")
		p.Observations = append(p.Observations, obs)
	}
	return p, nil
}

func parsePeriodYAML(path string, data []byte) (attendance.Period, error) {
	var f periodFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return attendance.Period{}, errors.WrapParse("yaml", path, err)
	}

	p := attendance.Period{Ordinal: f.Period, Label: f.Label}
	row := 0
	for _, o := range f.Observations {
		id, name := strings.TrimSpace(o.ID), strings.TrimSpace(o.Name)
		if id == "" && name == "" {
			continue
		}
		row++

		var m attendance.Metrics
		for key, v := range o.Metrics {
			c, ok := attendance.ParseCategory(key)
			if !ok {
				return attendance.Period{}, errors.NewParseError("yaml", path, fmt.Sprintf("row %d: unknown metric %q", row, key), nil)
			}
			m[c] = v
		}
		obs := attendance.NewObservation(0, "", row, id, name, m)
		obs.Position = o.Position
		obs.Department = o.Department
		obs.PayType = o.PayType
		p.Observations = append(p.Observations, obs)
	}
	return p, nil
}
