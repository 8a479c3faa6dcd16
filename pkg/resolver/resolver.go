// Package resolver folds per-period attendance observations into canonical
// employee entities.
//
// Each observation is matched against the entities built so far using three
// layers in strict priority order: a shared ID with a similar name, a shared
// ID with the same nickname, and an identical name under a different ID.
// The first layer with a match decides. A layer that matches more than one
// entity is recorded as an ambiguity and the observation starts a new entity.
package resolver

import (
	"context"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/logging"
	"github.com/agentstation/rollcall/pkg/provenance"
)

// Resolver resolves observation identities across periods.
type Resolver interface {
	// Resolve folds the periods, which must be in ascending ordinal order,
	// into canonical entities.
	Resolve(ctx context.Context, periods []attendance.Period) (*Result, error)
}

type resolver struct {
	threshold float64
	tracking  bool
}

// New creates a new Resolver with options.
func New(opts ...Option) (Resolver, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &resolver{
		threshold: options.threshold,
		tracking:  options.tracking,
	}, nil
}

// Resolve implements Resolver.
func (r *resolver) Resolve(ctx context.Context, periods []attendance.Period) (*Result, error) {
	logger := logging.FromContext(ctx)

	if err := attendance.ValidateOrder(periods); err != nil {
		return nil, err
	}

	result := NewResult()
	result.Metadata.Threshold = r.threshold
	tracker := provenance.NewTracker(r.tracking)
	state := NewState(r.threshold, tracker)

	for _, period := range periods {
		plog := logging.FromContext(logging.WithPeriod(ctx, period.Label))
		plog.Debug().
			Int("observations", len(period.Observations)).
			Msg("Resolving period")

		for _, obs := range period.Observations {
			obs.Period = period.Ordinal
			obs.PeriodLabel = period.Label

			var d Decision
			state, d = Step(state, obs)
			result.record(d)

			event := plog.Debug().
				Int("row", obs.Row).
				Str("id", obs.ID).
				Str("name", obs.Name).
				Str("outcome", string(d.Outcome)).
				Str("entity", d.Entity)
			if d.Layer != LayerNone {
				event = event.Stringer("layer", d.Layer)
			}
			if d.Similarity != nil {
				event = event.Float64("similarity", *d.Similarity)
			}
			event.Msg("Resolved observation")

			if d.Outcome == OutcomeAmbiguous {
				plog.Warn().
					Str("name", obs.Name).
					Str("id", obs.ID).
					Stringer("layer", d.Layer).
					Strs("candidates", d.Candidates).
					Msg("Ambiguous match, created separate entity")
			}
		}
		result.Metadata.Periods = append(result.Metadata.Periods, PeriodRef{Ordinal: period.Ordinal, Label: period.Label})
	}

	result.Entities = state.Entities()
	result.Ambiguities = state.Ambiguities()
	result.Provenance = tracker.Map()
	result.InputTotals = attendance.Totals(periods)
	result.Finalize()

	if err := CheckConservation(result.InputTotals, result.Entities); err != nil {
		logger.Error().Err(err).Msg("Resolution broke metric conservation")
		return nil, err
	}

	logger.Info().
		Int("periods", len(periods)).
		Int("observations", result.Metadata.Stats.ObservationsProcessed).
		Int("entities", len(result.Entities)).
		Int("merges", result.Metadata.Stats.Merges).
		Int("ambiguities", len(result.Ambiguities)).
		Dur("duration", result.Metadata.Duration).
		Msg("Resolution complete")

	return result, nil
}

// Fold runs Step over observations in order, starting from an empty state.
// It is the pure-reducer form of Resolve without validation or logging.
func Fold(threshold float64, observations ...attendance.Observation) *State {
	state := NewState(threshold, nil)
	for _, obs := range observations {
		state, _ = Step(state, obs)
	}
	return state
}
