package audit

import (
	"slices"

	"github.com/agentstation/rollcall/pkg/resolver"
)

// TrailEntry explains how one merged entity was assembled.
type TrailEntry struct {
	Entity       string               `json:"entity" yaml:"entity"`
	DisplayName  string               `json:"display_name" yaml:"display_name"`
	Names        []string             `json:"names" yaml:"names"`
	HighestLayer resolver.Layer       `json:"highest_layer" yaml:"highest_layer"`
	Merges       int                  `json:"merges" yaml:"merges"`
	IDsByPeriod  []resolver.PeriodIDs `json:"ids_by_period" yaml:"ids_by_period"`
}

// MergeTrail lists every entity that absorbed at least one merge.
func MergeTrail(entities []*resolver.Entity) []TrailEntry {
	var out []TrailEntry
	for _, e := range entities {
		if !e.Merged() {
			continue
		}
		out = append(out, TrailEntry{
			Entity:       e.Ref,
			DisplayName:  e.DisplayName,
			Names:        slices.Clone(e.Names),
			HighestLayer: e.HighestLayer(),
			Merges:       len(e.Events),
			IDsByPeriod:  e.IDsByPeriod(),
		})
	}
	return out
}

// TrailPeriods returns the distinct periods that appear in a trail, in
// chronological order. Renderers use it for per-period ID columns.
func TrailPeriods(trail []TrailEntry) []resolver.PeriodRef {
	seen := make(map[int]bool)
	var out []resolver.PeriodRef
	for _, t := range trail {
		for _, p := range t.IDsByPeriod {
			if !seen[p.Period.Ordinal] {
				seen[p.Period.Ordinal] = true
				out = append(out, p.Period)
			}
		}
	}
	slices.SortFunc(out, func(a, b resolver.PeriodRef) int { return a.Ordinal - b.Ordinal })
	return out
}

// IDsIn returns the entry's IDs for one period, or nil.
func (t TrailEntry) IDsIn(ordinal int) []string {
	for _, p := range t.IDsByPeriod {
		if p.Period.Ordinal == ordinal {
			return p.IDs
		}
	}
	return nil
}
