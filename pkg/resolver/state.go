package resolver

import (
	"fmt"
	"slices"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/names"
	"github.com/agentstation/rollcall/pkg/provenance"
	"github.com/agentstation/rollcall/pkg/similarity"
)

// State is the accumulator of one resolution pass. It is owned by a single
// fold and is not safe for concurrent use.
type State struct {
	threshold   float64
	entities    []*Entity
	byID        map[string][]int
	byKey       map[string][]int
	ambiguities []Ambiguity
	tracker     provenance.Tracker
}

// NewState returns an empty accumulator. A nil tracker disables field
// provenance.
func NewState(threshold float64, tracker provenance.Tracker) *State {
	if threshold <= 0 || threshold > 1 {
		threshold = constants.DefaultSimilarityThreshold
	}
	if tracker == nil {
		tracker = provenance.NewTracker(false)
	}
	return &State{
		threshold: threshold,
		byID:      make(map[string][]int),
		byKey:     make(map[string][]int),
		tracker:   tracker,
	}
}

// Entities returns the entities in creation order.
func (s *State) Entities() []*Entity {
	return slices.Clone(s.entities)
}

// Ambiguities returns the ambiguous matches recorded so far.
func (s *State) Ambiguities() []Ambiguity {
	return slices.Clone(s.ambiguities)
}

// Len returns the number of entities.
func (s *State) Len() int {
	return len(s.entities)
}

// Outcome is what Step did with an observation.
type Outcome string

// Step outcomes.
const (
	OutcomeCreated   Outcome = "created"
	OutcomeMerged    Outcome = "merged"
	OutcomeAmbiguous Outcome = "ambiguous"
)

// Decision describes how one observation was resolved.
type Decision struct {
	Outcome    Outcome
	Entity     string
	Layer      Layer
	Similarity *float64
	Candidates []string
}

// Ambiguity records an observation that matched more than one entity at the
// same layer. The observation was placed in a new entity instead of being
// merged into any candidate.
type Ambiguity struct {
	Observation attendance.Observation `json:"observation" yaml:"observation"`
	Layer       Layer                  `json:"layer" yaml:"layer"`
	Candidates  []string               `json:"candidates" yaml:"candidates"`
	Created     string                 `json:"created" yaml:"created"`
}

// Err returns the ambiguity as an error for callers that treat it as fatal.
func (a Ambiguity) Err() error {
	return &errors.AmbiguityError{
		Period:     a.Observation.PeriodLabel,
		Name:       a.Observation.Name,
		Layer:      a.Layer.String(),
		Candidates: a.Candidates,
	}
}

// candidate is an entity that satisfied a layer.
type candidate struct {
	index    int
	existing MatchKey
	incoming MatchKey
	score    *float64
}

// Step folds one observation into the accumulator and returns it. The
// state passed in is consumed; callers must continue with the returned value.
func Step(s *State, obs attendance.Observation) (*State, Decision) {
	form := names.Parse(obs.Name)
	layer, hits := s.match(obs, form)

	switch {
	case len(hits) == 1:
		return s, s.merge(hits[0], layer, obs, form)
	case len(hits) > 1:
		refs := make([]string, len(hits))
		for i, h := range hits {
			refs[i] = s.entities[h.index].Ref
		}
		e := s.create(obs, form)
		s.ambiguities = append(s.ambiguities, Ambiguity{
			Observation: obs,
			Layer:       layer,
			Candidates:  refs,
			Created:     e.Ref,
		})
		return s, Decision{Outcome: OutcomeAmbiguous, Entity: e.Ref, Layer: layer, Candidates: refs}
	default:
		e := s.create(obs, form)
		return s, Decision{Outcome: OutcomeCreated, Entity: e.Ref}
	}
}

// match tries each layer in priority order and returns the hits of the
// first layer that has any.
func (s *State) match(obs attendance.Observation, form names.Components) (Layer, []candidate) {
	if hits := s.matchIDName(obs, form); len(hits) > 0 {
		return LayerIDName, hits
	}
	if hits := s.matchIDNickname(obs, form); len(hits) > 0 {
		return LayerIDNickname, hits
	}
	if hits := s.matchNameOnly(obs, form); len(hits) > 0 {
		return LayerNameOnly, hits
	}
	return LayerNone, nil
}

func (s *State) matchIDName(obs attendance.Observation, form names.Components) []candidate {
	if obs.ID == "" {
		return nil
	}
	key := form.Key()
	var hits []candidate
	for _, idx := range s.byID[obs.ID] {
		display := s.entities[idx].DisplayForm()
		if display.IsEmpty() || !names.Compatible(form, display) {
			continue
		}
		if score := similarity.Ratio(key, display.Key()); score >= s.threshold {
			hits = append(hits, candidate{
				index:    idx,
				existing: MatchKey{Kind: KeyIDName, ID: obs.ID, Value: display.Key()},
				incoming: MatchKey{Kind: KeyIDName, ID: obs.ID, Value: key},
				score:    &score,
			})
		}
	}
	return hits
}

func (s *State) matchIDNickname(obs attendance.Observation, form names.Components) []candidate {
	anchor := form.Anchor()
	if obs.ID == "" || anchor == "" {
		return nil
	}
	var hits []candidate
	for _, idx := range s.byID[obs.ID] {
		display := s.entities[idx].DisplayForm()
		if names.Compatible(form, display) && display.Anchor() == anchor {
			hits = append(hits, candidate{
				index:    idx,
				existing: MatchKey{Kind: KeyIDNickname, ID: obs.ID, Value: anchor},
				incoming: MatchKey{Kind: KeyIDNickname, ID: obs.ID, Value: anchor},
			})
		}
	}
	return hits
}

func (s *State) matchNameOnly(obs attendance.Observation, form names.Components) []candidate {
	if form.Given == "" {
		return nil
	}
	key := form.Key()
	var hits []candidate
	for _, idx := range s.byKey[key] {
		if s.entities[idx].HasID(obs.ID) {
			continue
		}
		hits = append(hits, candidate{
			index:    idx,
			existing: MatchKey{Kind: KeyName, ID: s.entities[idx].PrimaryID(), Value: key},
			incoming: MatchKey{Kind: KeyName, ID: obs.ID, Value: key},
		})
	}
	return hits
}

func (s *State) create(obs attendance.Observation, form names.Components) *Entity {
	idx := len(s.entities)
	e := newEntity(fmt.Sprintf("E%04d", idx+1), obs, form)
	s.entities = append(s.entities, e)
	s.index(idx, e)
	s.track(e, obs, LayerNone)
	return e
}

func (s *State) merge(c candidate, layer Layer, obs attendance.Observation, form names.Components) Decision {
	e := s.entities[c.index]
	e.absorb(obs, form, layer)
	e.Events = append(e.Events, MergeEvent{
		Period:     PeriodRef{Ordinal: obs.Period, Label: obs.PeriodLabel},
		Layer:      layer,
		Existing:   c.existing,
		Incoming:   c.incoming,
		Similarity: c.score,
	})
	s.index(c.index, e)
	s.track(e, obs, layer)
	return Decision{Outcome: OutcomeMerged, Entity: e.Ref, Layer: layer, Similarity: c.score}
}

// index registers every ID and name key of the entity.
func (s *State) index(idx int, e *Entity) {
	for _, id := range e.IDs {
		if !slices.Contains(s.byID[id], idx) {
			s.byID[id] = append(s.byID[id], idx)
		}
	}
	for _, f := range e.Forms() {
		if f.Given == "" {
			continue
		}
		key := f.Key()
		if !slices.Contains(s.byKey[key], idx) {
			s.byKey[key] = append(s.byKey[key], idx)
		}
	}
}

func (s *State) track(e *Entity, obs attendance.Observation, layer Layer) {
	base := provenance.Provenance{
		Period:      obs.Period,
		PeriodLabel: obs.PeriodLabel,
		Row:         obs.Row,
		Reason:      layer.String(),
	}
	if layer == LayerNone {
		base.Reason = "created"
	}
	if obs.ID != "" {
		p := base
		p.Value = obs.ID
		s.tracker.Track(e.Ref, provenance.FieldID, p)
	}
	p := base
	p.Value = obs.Name
	s.tracker.Track(e.Ref, provenance.FieldName, p)
	for _, note := range obs.Notes {
		p := base
		p.Value = note
		s.tracker.Track(e.Ref, provenance.FieldNote, p)
	}
}
