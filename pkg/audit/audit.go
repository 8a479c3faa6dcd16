// Package audit derives review material from a resolution result: entities
// that need a human look, the trail of every merge, metric traceback per
// period, and stable output IDs. Nothing here changes the result.
package audit

import (
	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

// Report bundles every audit view of one run.
type Report struct {
	Summary    Summary                `json:"summary" yaml:"summary"`
	Suspicious []SuspiciousEntity     `json:"suspicious" yaml:"suspicious"`
	Trail      []TrailEntry           `json:"trail" yaml:"trail"`
	Traceback  Traceback              `json:"traceback" yaml:"traceback"`
	OutputIDs  map[string]string      `json:"output_ids" yaml:"output_ids"`
	Matches    *roster.Reconciliation `json:"matches,omitempty" yaml:"matches,omitempty"`
}

// Build derives the full report. rec may be nil when no roster was used.
func Build(periods []attendance.Period, result *resolver.Result, rec *roster.Reconciliation) *Report {
	return &Report{
		Summary:    Summarize(periods, result, rec),
		Suspicious: Suspicious(result, rec),
		Trail:      MergeTrail(result.Entities),
		Traceback:  NewTraceback(periods, result),
		OutputIDs:  OutputIDs(result.Entities, rec),
		Matches:    rec,
	}
}
