package table

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/rollcall/pkg/provenance"
)

// ProvenanceToTableData converts one entity's field history to table format.
// Shows all fields and their history in a single unified table, oldest
// observation first.
func ProvenanceToTableData(fieldProvenance map[provenance.Field][]provenance.Provenance) Data {
	var rows [][]string

	// Sort fields alphabetically
	fields := make([]provenance.Field, 0, len(fieldProvenance))
	for field := range fieldProvenance {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	for _, field := range fields {
		history := fieldProvenance[field]
		if len(history) == 0 {
			continue
		}

		sorted := make([]provenance.Provenance, len(history))
		copy(sorted, history)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Period != sorted[j].Period {
				return sorted[i].Period < sorted[j].Period
			}
			return sorted[i].Row < sorted[j].Row
		})

		for i, entry := range sorted {
			// Field name only on first row, blank for subsequent entries
			fieldName := ""
			if i == 0 {
				fieldName = string(field)
			}

			// mark values that differ from the previous entry
			changed := ""
			if i > 0 && entry.Value != sorted[i-1].Value {
				changed = "*"
			}

			value := entry.Value
			if value == "" {
				value = "<empty>"
			}

			rows = append(rows, []string{
				fieldName,
				changed,
				value,
				entry.PeriodLabel,
				fmt.Sprintf("%d", entry.Row),
				entry.Reason,
			})
		}
	}

	return Data{
		Headers: []string{"Field", "Chg", "Value", "Period", "Row", "Reason"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // Field
			AlignCenter, // Chg
			AlignLeft,   // Value
			AlignLeft,   // Period
			AlignRight,  // Row
			AlignLeft,   // Reason
		},
	}
}

// MatchField checks if a field matches any of the provided patterns.
// Supports glob patterns (e.g., "n*" matches "name").
// Matching is case-insensitive for better user experience.
func MatchField(field string, patterns []string) bool {
	if len(patterns) == 0 {
		return true // No patterns means match all
	}

	fieldLower := strings.ToLower(field)
	for _, pattern := range patterns {
		matched, err := filepath.Match(strings.ToLower(pattern), fieldLower)
		if err == nil && matched {
			return true
		}
	}
	return false
}
