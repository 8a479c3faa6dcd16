package audit

import (
	"slices"

	"github.com/agentstation/rollcall/pkg/notes"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

// Flag is a reason an entity needs review.
type Flag string

// Review flags.
const (
	FlagMultipleIDs     Flag = "multiple-ids"
	FlagMultipleNames   Flag = "multiple-names"
	FlagResigned        Flag = "resigned"
	FlagRestarted       Flag = "restarted"
	FlagTransferred     Flag = "transferred"
	FlagAmbiguous       Flag = "ambiguous"
	FlagRosterCollision Flag = "roster-collision"
)

// Flags returns every flag in report order.
func Flags() []Flag {
	return []Flag{FlagMultipleIDs, FlagMultipleNames, FlagResigned, FlagRestarted, FlagTransferred, FlagAmbiguous, FlagRosterCollision}
}

// SuspiciousEntity is an entity flagged for review.
type SuspiciousEntity struct {
	Entity      string   `json:"entity" yaml:"entity"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	IDs         []string `json:"ids" yaml:"ids"`
	Names       []string `json:"names" yaml:"names"`
	Notes       []string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Flags       []Flag   `json:"flags" yaml:"flags"`
}

// Has reports whether the entity carries a flag.
func (s SuspiciousEntity) Has(flag Flag) bool {
	return slices.Contains(s.Flags, flag)
}

// Suspicious returns every entity with more than one ID, more than one
// distinct name, a status keyword in its notes, involvement in an ambiguous
// match, or a claim on a roster record shared with another entity. rec may
// be nil.
func Suspicious(result *resolver.Result, rec *roster.Reconciliation) []SuspiciousEntity {
	ambiguous := make(map[string]bool)
	for _, a := range result.Ambiguities {
		ambiguous[a.Created] = true
		for _, ref := range a.Candidates {
			ambiguous[ref] = true
		}
	}
	colliding := make(map[string]bool)
	if rec != nil {
		for _, c := range rec.Collisions {
			for _, ref := range c.Entities {
				colliding[ref] = true
			}
		}
	}

	var out []SuspiciousEntity
	for _, e := range result.Entities {
		var flags []Flag
		if len(e.IDs) > 1 {
			flags = append(flags, FlagMultipleIDs)
		}
		if len(e.Names) > 1 {
			flags = append(flags, FlagMultipleNames)
		}
		for _, m := range notes.Scan(e.Notes...) {
			flags = append(flags, Flag(m.Flag))
		}
		if ambiguous[e.Ref] {
			flags = append(flags, FlagAmbiguous)
		}
		if colliding[e.Ref] {
			flags = append(flags, FlagRosterCollision)
		}
		if len(flags) == 0 {
			continue
		}
		out = append(out, SuspiciousEntity{
			Entity:      e.Ref,
			DisplayName: e.DisplayName,
			IDs:         slices.Clone(e.IDs),
			Names:       slices.Clone(e.Names),
			Notes:       slices.Clone(e.Notes),
			Flags:       flags,
		})
	}
	return out
}
