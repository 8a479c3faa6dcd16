package roster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/logging"
	"github.com/agentstation/rollcall/pkg/names"
	"github.com/agentstation/rollcall/pkg/notes"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/similarity"
)

// Classification is the outcome of matching one entity.
type Classification string

// Match classifications, strongest first.
const (
	MatchIDName    Classification = "id+name"
	MatchNameOnly  Classification = "name"
	MatchUnmatched Classification = "unmatched"
)

// Classifications returns the classifications in report order.
func Classifications() []Classification {
	return []Classification{MatchIDName, MatchNameOnly, MatchUnmatched}
}

// Name returns a human readable classification.
func (c Classification) Name() string {
	switch c {
	case MatchIDName:
		return "ID + Name"
	case MatchNameOnly:
		return "Name Only"
	default:
		return "Unmatched"
	}
}

// MatchResult is the roster outcome for one entity.
type MatchResult struct {
	Entity         string         `json:"entity" yaml:"entity"`
	EntityIDs      []string       `json:"entity_ids" yaml:"entity_ids"`
	EntityName     string         `json:"entity_name" yaml:"entity_name"`
	Classification Classification `json:"classification" yaml:"classification"`
	Record         *Record        `json:"record,omitempty" yaml:"record,omitempty"`
	MatchedID      string         `json:"matched_id,omitempty" yaml:"matched_id,omitempty"`
	Similarity     float64        `json:"similarity" yaml:"similarity"`
	Note           string         `json:"note,omitempty" yaml:"note,omitempty"`
}

// Matched reports whether a roster record was found.
func (m MatchResult) Matched() bool {
	return m.Record != nil
}

// CanonicalID returns the roster ID when matched, otherwise the entity's
// first observed ID.
func (m MatchResult) CanonicalID() string {
	if m.Record != nil {
		return m.Record.ID
	}
	if len(m.EntityIDs) > 0 {
		return m.EntityIDs[0]
	}
	return ""
}

// CanonicalName returns the roster display name when matched, otherwise the
// entity's display name.
func (m MatchResult) CanonicalName() string {
	if m.Record != nil {
		return m.Record.Display()
	}
	return m.EntityName
}

// Collision is a roster record claimed by more than one entity.
type Collision struct {
	RecordID string   `json:"record_id" yaml:"record_id"`
	Name     string   `json:"name" yaml:"name"`
	Entities []string `json:"entities" yaml:"entities"`
}

// Reconciliation is the outcome of matching every entity.
type Reconciliation struct {
	Results    []MatchResult          `json:"results" yaml:"results"`
	Collisions []Collision            `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	Counts     map[Classification]int `json:"counts" yaml:"counts"`
}

// Result returns the match result for an entity ref.
func (r *Reconciliation) Result(ref string) (MatchResult, bool) {
	for _, m := range r.Results {
		if m.Entity == ref {
			return m, true
		}
	}
	return MatchResult{}, false
}

// Matcher matches entities against a roster.
type Matcher struct {
	roster    *Roster
	threshold float64
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithThreshold sets the minimum name similarity for an ID match.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) error {
		if threshold <= 0 || threshold > 1 {
			return &errors.ValidationError{
				Field:   "threshold",
				Value:   threshold,
				Message: "must be greater than 0 and at most 1",
			}
		}
		m.threshold = threshold
		return nil
	}
}

// NewMatcher creates a matcher. A nil roster classifies every entity as
// unmatched.
func NewMatcher(roster *Roster, opts ...Option) (*Matcher, error) {
	m := &Matcher{roster: roster, threshold: constants.DefaultSimilarityThreshold}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Match classifies one entity. A roster record is verified against every
// name the entity was observed under and the best score decides; the
// record itself never changes during a run.
func (m *Matcher) Match(e *resolver.Entity) MatchResult {
	result := MatchResult{
		Entity:         e.Ref,
		EntityIDs:      append([]string(nil), e.IDs...),
		EntityName:     e.DisplayName,
		Classification: MatchUnmatched,
	}

	forms := e.Forms()

	for _, id := range e.IDs {
		candidates := m.roster.ByID(id)
		if len(candidates) != 1 {
			continue
		}
		rec := candidates[0]
		best := -1.0
		for _, f := range forms {
			if f.Given == "" || !names.Compatible(f, rec.Form()) {
				continue
			}
			if score := similarity.Ratio(f.Key(), rec.Key()); score > best {
				best = score
			}
		}
		if best >= m.threshold {
			result.Classification = MatchIDName
			result.Record = &rec
			result.MatchedID = id
			result.Similarity = best
			return result
		}
	}

	for _, f := range forms {
		if f.Given == "" {
			continue
		}
		if candidates := m.roster.ByKey(f.Key()); len(candidates) == 1 {
			rec := candidates[0]
			result.Classification = MatchNameOnly
			result.Record = &rec
			result.Similarity = 1
			return result
		}
	}

	result.Note = unmatchedNote(e)
	return result
}

// MatchAll classifies every entity and reports roster collisions.
func (m *Matcher) MatchAll(ctx context.Context, entities []*resolver.Entity) *Reconciliation {
	logger := logging.FromContext(ctx)

	rec := &Reconciliation{
		Results: make([]MatchResult, 0, len(entities)),
		Counts:  make(map[Classification]int),
	}
	claims := make(map[string][]string)
	for _, e := range entities {
		res := m.Match(e)
		rec.Results = append(rec.Results, res)
		rec.Counts[res.Classification]++
		if res.Record != nil {
			claims[res.Record.ID] = append(claims[res.Record.ID], e.Ref)
		}
		logging.FromContext(logging.WithEntity(ctx, e.Ref)).Debug().
			Str("classification", string(res.Classification)).
			Str("canonical_id", res.CanonicalID()).
			Msg("Matched entity against roster")
	}

	ids := make([]string, 0, len(claims))
	for id, refs := range claims {
		if len(refs) > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		res, _ := rec.Result(claims[id][0])
		rec.Collisions = append(rec.Collisions, Collision{
			RecordID: id,
			Name:     res.Record.Name,
			Entities: claims[id],
		})
	}

	logger.Info().
		Int("roster", m.roster.Len()).
		Int("id_name", rec.Counts[MatchIDName]).
		Int("name_only", rec.Counts[MatchNameOnly]).
		Int("unmatched", rec.Counts[MatchUnmatched]).
		Int("collisions", len(rec.Collisions)).
		Msg("Roster reconciliation complete")

	return rec
}

// Apply returns copies of the entities carrying their canonical names.
// The input entities are not modified.
func Apply(entities []*resolver.Entity, rec *Reconciliation) []*resolver.Entity {
	out := make([]*resolver.Entity, len(entities))
	for i, e := range entities {
		c := e.Clone()
		if res, ok := rec.Result(e.Ref); ok && res.Matched() {
			c.DisplayName = res.CanonicalName()
		}
		out[i] = c
	}
	return out
}

// unmatchedNote explains an unmatched entity using only literal facts: the
// status keywords in its names and notes, its last observed period, and the
// notes themselves.
func unmatchedNote(e *resolver.Entity) string {
	var parts []string
	texts := append(append([]string{}, e.Names...), e.Notes...)
	for _, m := range notes.Scan(texts...) {
		if m.Flag == notes.FlagResigned || m.Flag == notes.FlagTransferred {
			parts = append(parts, m.String())
		}
	}
	if e.LastPeriod.Label != "" {
		parts = append(parts, fmt.Sprintf("last seen: %s", e.LastPeriod.Label))
	}
	parts = append(parts, e.Notes...)
	return strings.Join(parts, " | ")
}
