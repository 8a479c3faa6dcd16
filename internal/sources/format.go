package sources

import (
	"bytes"
	"encoding/csv"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Format is a supported source file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// leading "NN." in a period file name, as in 01.2568.csv
var ordinalPrefix = regexp.MustCompile(`^(\d+)\.`)

// DetectFormat returns the format implied by the file extension.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// OrdinalFromName extracts the period ordinal from a file name like
// "03.2568.csv".
func OrdinalFromName(path string) (int, bool) {
	m := ordinalPrefix.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// LabelFromName returns the file name without directory or extension.
func LabelFromName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseValue coerces a metric cell. Blank cells, dash placeholders and
// anything that is not a number count as zero.
func ParseValue(cell string) float64 {
	s := strings.TrimSpace(cell)
	switch s {
	case "", "-", "--":
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// newCSVReader returns a reader tolerant of ragged rows and a leading
// byte order mark.
func newCSVReader(data []byte) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r
}
