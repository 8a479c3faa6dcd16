// Package filter narrows entity and audit listings for CLI commands.
package filter

import (
	"strings"

	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/resolver"
)

// EntityFilter applies filters to entity lists
type EntityFilter struct {
	Search     string // ID or name substring
	Department string
	MergedOnly bool
	Layer      resolver.Layer
}

// Apply filters a slice of entities
func (f *EntityFilter) Apply(entities []*resolver.Entity) []*resolver.Entity {
	if f == nil || f.isEmpty() {
		return entities
	}

	var filtered []*resolver.Entity
	for _, e := range entities {
		if f.matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (f *EntityFilter) isEmpty() bool {
	return f.Search == "" &&
		f.Department == "" &&
		!f.MergedOnly &&
		f.Layer == resolver.LayerNone
}

func (f *EntityFilter) matches(e *resolver.Entity) bool {
	if f.MergedOnly && !e.Merged() {
		return false
	}
	if f.Layer != resolver.LayerNone && e.HighestLayer() != f.Layer {
		return false
	}
	if f.Department != "" && !strings.EqualFold(e.Department, f.Department) {
		return false
	}
	if f.Search != "" && !matchesSearch(f.Search, e.Ref, e.IDs, e.Names) {
		return false
	}
	return true
}

// SuspiciousFilter applies filters to flagged entities
type SuspiciousFilter struct {
	Flag   audit.Flag
	Search string
}

// Apply filters a slice of flagged entities
func (f *SuspiciousFilter) Apply(entities []audit.SuspiciousEntity) []audit.SuspiciousEntity {
	if f == nil || (f.Flag == "" && f.Search == "") {
		return entities
	}

	var filtered []audit.SuspiciousEntity
	for _, s := range entities {
		if f.Flag != "" && !s.Has(f.Flag) {
			continue
		}
		if f.Search != "" && !matchesSearch(f.Search, s.Entity, s.IDs, s.Names) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// TrailFilter applies filters to merge trail entries
type TrailFilter struct {
	Layer  resolver.Layer
	Search string
}

// Apply filters a merge trail
func (f *TrailFilter) Apply(trail []audit.TrailEntry) []audit.TrailEntry {
	if f == nil || (f.Layer == resolver.LayerNone && f.Search == "") {
		return trail
	}

	var filtered []audit.TrailEntry
	for _, t := range trail {
		if f.Layer != resolver.LayerNone && t.HighestLayer != f.Layer {
			continue
		}
		if f.Search != "" {
			var ids []string
			for _, p := range t.IDsByPeriod {
				ids = append(ids, p.IDs...)
			}
			if !matchesSearch(f.Search, t.Entity, ids, t.Names) {
				continue
			}
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// matchesSearch reports whether the search term occurs in the ref, any ID
// or any name, ignoring case.
func matchesSearch(search, ref string, ids, names []string) bool {
	search = strings.ToLower(search)
	if strings.Contains(strings.ToLower(ref), search) {
		return true
	}
	for _, id := range ids {
		if strings.Contains(strings.ToLower(id), search) {
			return true
		}
	}
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), search) {
			return true
		}
	}
	return false
}
