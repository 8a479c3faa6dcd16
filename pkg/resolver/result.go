package resolver

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/provenance"
)

// Result is the read-only outcome of a resolution pass.
type Result struct {
	Entities    []*Entity          `json:"entities" yaml:"entities"`
	Ambiguities []Ambiguity        `json:"ambiguities,omitempty" yaml:"ambiguities,omitempty"`
	InputTotals attendance.Metrics `json:"input_totals" yaml:"input_totals"`
	Provenance  provenance.Map     `json:"-" yaml:"-"`
	Metadata    ResultMetadata     `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains metadata about the resolution pass.
type ResultMetadata struct {
	StartTime time.Time        `json:"start_time" yaml:"start_time"`
	EndTime   time.Time        `json:"end_time" yaml:"end_time"`
	Duration  time.Duration    `json:"duration" yaml:"duration"`
	Threshold float64          `json:"threshold" yaml:"threshold"`
	Periods   []PeriodRef      `json:"periods" yaml:"periods"`
	Stats     ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics counts what the pass did.
type ResultStatistics struct {
	ObservationsProcessed int           `json:"observations_processed" yaml:"observations_processed"`
	EntitiesCreated       int           `json:"entities_created" yaml:"entities_created"`
	Merges                int           `json:"merges" yaml:"merges"`
	MergesByLayer         map[Layer]int `json:"merges_by_layer" yaml:"merges_by_layer"`
	Ambiguous             int           `json:"ambiguous" yaml:"ambiguous"`
	TotalTimeMs           int64         `json:"total_time_ms" yaml:"total_time_ms"`
}

// NewResult creates a new result with defaults.
func NewResult() *Result {
	return &Result{
		Provenance: make(provenance.Map),
		Metadata: ResultMetadata{
			StartTime: time.Now(),
			Stats: ResultStatistics{
				MergesByLayer: make(map[Layer]int),
			},
		},
	}
}

func (r *Result) record(d Decision) {
	stats := &r.Metadata.Stats
	stats.ObservationsProcessed++
	switch d.Outcome {
	case OutcomeMerged:
		stats.Merges++
		stats.MergesByLayer[d.Layer]++
	case OutcomeAmbiguous:
		stats.Ambiguous++
		stats.EntitiesCreated++
	case OutcomeCreated:
		stats.EntitiesCreated++
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	stats := r.Metadata.Stats
	parts := make([]string, 0, len(Layers()))
	for _, l := range Layers() {
		parts = append(parts, fmt.Sprintf("%s %d", l, stats.MergesByLayer[l]))
	}
	summary := fmt.Sprintf("%d observations across %d periods resolved to %d entities (%d merges: %s)",
		stats.ObservationsProcessed, len(r.Metadata.Periods), len(r.Entities), stats.Merges, strings.Join(parts, ", "))
	if len(r.Ambiguities) > 0 {
		summary += fmt.Sprintf("; %d ambiguous matches need review", len(r.Ambiguities))
	}
	return summary
}

// Entity returns the entity with the given ref.
func (r *Result) Entity(ref string) (*Entity, error) {
	for _, e := range r.Entities {
		if e.Ref == ref {
			return e, nil
		}
	}
	return nil, errors.NewNotFoundError("entity", ref)
}

// OutputTotals sums metrics across all entities.
func (r *Result) OutputTotals() attendance.Metrics {
	return Totals(r.Entities)
}

// AmbiguityErrors joins all ambiguities into one error, or nil.
func (r *Result) AmbiguityErrors() error {
	errs := make([]error, 0, len(r.Ambiguities))
	for _, a := range r.Ambiguities {
		errs = append(errs, a.Err())
	}
	return errors.Join(errs...)
}

// AsPeriod turns the entities back into one period of observations, one per
// entity, under the entity's display name and first ID. Resolving that
// period again must not merge anything.
func (r *Result) AsPeriod(ordinal int, label string) attendance.Period {
	p := attendance.Period{Ordinal: ordinal, Label: label}
	for i, e := range r.Entities {
		p.Observations = append(p.Observations, attendance.Observation{
			Period:      ordinal,
			PeriodLabel: label,
			Row:         i + 1,
			ID:          e.PrimaryID(),
			Name:        e.DisplayName,
			Position:    e.Position,
			Department:  e.Department,
			PayType:     e.PayType,
			Metrics:     e.Metrics,
			Notes:       append([]string(nil), e.Notes...),
		})
	}
	return p
}
