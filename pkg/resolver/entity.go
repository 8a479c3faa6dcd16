package resolver

import (
	"slices"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/names"
)

// Entity is one real employee as reconstructed from observations. An entity
// is created when an observation matches nothing and is afterwards changed
// only by merges; it is never split or deleted.
type Entity struct {
	Ref         string             `json:"ref" yaml:"ref"`
	IDs         []string           `json:"ids" yaml:"ids"`
	Names       []string           `json:"names" yaml:"names"`
	DisplayName string             `json:"display_name" yaml:"display_name"`
	Position    string             `json:"position,omitempty" yaml:"position,omitempty"`
	Department  string             `json:"department,omitempty" yaml:"department,omitempty"`
	PayType     string             `json:"pay_type,omitempty" yaml:"pay_type,omitempty"`
	FirstPeriod PeriodRef          `json:"first_period" yaml:"first_period"`
	LastPeriod  PeriodRef          `json:"last_period" yaml:"last_period"`
	Metrics     attendance.Metrics `json:"metrics" yaml:"metrics"`
	Notes       []string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Appearances []Appearance       `json:"appearances" yaml:"appearances"`
	Events      []MergeEvent       `json:"events,omitempty" yaml:"events,omitempty"`

	// parsed forms of Names, same order
	forms []names.Components
}

// PeriodRef names a period by ordinal and label.
type PeriodRef struct {
	Ordinal int    `json:"ordinal" yaml:"ordinal"`
	Label   string `json:"label" yaml:"label"`
}

// Appearance records the raw ID and name an entity was observed under in
// one period.
type Appearance struct {
	Period PeriodRef `json:"period" yaml:"period"`
	Row    int       `json:"row" yaml:"row"`
	ID     string    `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Layer  Layer     `json:"layer" yaml:"layer"`
}

// MergeEvent records one observation being folded into an existing entity.
type MergeEvent struct {
	Period     PeriodRef `json:"period" yaml:"period"`
	Layer      Layer     `json:"layer" yaml:"layer"`
	Existing   MatchKey  `json:"existing" yaml:"existing"`
	Incoming   MatchKey  `json:"incoming" yaml:"incoming"`
	Similarity *float64  `json:"similarity,omitempty" yaml:"similarity,omitempty"`
}

func newEntity(ref string, obs attendance.Observation, form names.Components) *Entity {
	display := form.Display()
	if display == "" {
		display = names.Clean(obs.Name)
	}
	at := PeriodRef{Ordinal: obs.Period, Label: obs.PeriodLabel}
	e := &Entity{
		Ref:         ref,
		DisplayName: display,
		Position:    obs.Position,
		Department:  obs.Department,
		PayType:     obs.PayType,
		FirstPeriod: at,
	}
	e.absorb(obs, form, LayerNone)
	return e
}

// absorb folds an observation's fields into the entity.
func (e *Entity) absorb(obs attendance.Observation, form names.Components, layer Layer) {
	if obs.ID != "" && !slices.Contains(e.IDs, obs.ID) {
		e.IDs = append(e.IDs, obs.ID)
	}
	raw := names.Clean(obs.Name)
	if raw != "" && !slices.Contains(e.Names, raw) {
		e.Names = append(e.Names, raw)
		e.forms = append(e.forms, form)
	}
	for _, note := range obs.Notes {
		if note != "" && !slices.Contains(e.Notes, note) {
			e.Notes = append(e.Notes, note)
		}
	}
	if e.Position == "" {
		e.Position = obs.Position
	}
	if e.Department == "" {
		e.Department = obs.Department
	}
	if e.PayType == "" {
		e.PayType = obs.PayType
	}

	e.Metrics = e.Metrics.Add(obs.Metrics)
	at := PeriodRef{Ordinal: obs.Period, Label: obs.PeriodLabel}
	if at.Ordinal >= e.LastPeriod.Ordinal {
		e.LastPeriod = at
	}
	e.Appearances = append(e.Appearances, Appearance{
		Period: at,
		Row:    obs.Row,
		ID:     obs.ID,
		Name:   obs.Name,
		Layer:  layer,
	})
}

// Forms returns the parsed forms of the entity's observed names, display
// name first.
func (e *Entity) Forms() []names.Components {
	if len(e.forms) != len(e.Names) {
		e.forms = make([]names.Components, len(e.Names))
		for i, n := range e.Names {
			e.forms[i] = names.Parse(n)
		}
	}
	return e.forms
}

// DisplayForm returns the parsed display name. The ID layers score against
// this form only, never against later observed names.
func (e *Entity) DisplayForm() names.Components {
	return names.Parse(e.DisplayName)
}

// HasID reports whether the entity was ever observed under id.
func (e *Entity) HasID(id string) bool {
	return id != "" && slices.Contains(e.IDs, id)
}

// PrimaryID returns the first ID the entity was observed under.
func (e *Entity) PrimaryID() string {
	if len(e.IDs) == 0 {
		return ""
	}
	return e.IDs[0]
}

// Merged reports whether any observation was merged into the entity.
func (e *Entity) Merged() bool {
	return len(e.Events) > 0
}

// HighestLayer returns the highest-priority layer among the entity's merges.
func (e *Entity) HighestLayer() Layer {
	best := LayerNone
	for _, ev := range e.Events {
		if ev.Layer.Stronger(best) {
			best = ev.Layer
		}
	}
	return best
}

// IDsByPeriod groups the raw IDs the entity appeared under by period, in
// chronological order.
func (e *Entity) IDsByPeriod() []PeriodIDs {
	var out []PeriodIDs
	for _, a := range e.Appearances {
		if n := len(out); n > 0 && out[n-1].Period.Ordinal == a.Period.Ordinal {
			if a.ID != "" && !slices.Contains(out[n-1].IDs, a.ID) {
				out[n-1].IDs = append(out[n-1].IDs, a.ID)
			}
			continue
		}
		p := PeriodIDs{Period: a.Period}
		if a.ID != "" {
			p.IDs = []string{a.ID}
		}
		out = append(out, p)
	}
	return out
}

// PeriodIDs lists the raw IDs observed in one period.
type PeriodIDs struct {
	Period PeriodRef `json:"period" yaml:"period"`
	IDs    []string  `json:"ids" yaml:"ids"`
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	c := *e
	c.IDs = slices.Clone(e.IDs)
	c.Names = slices.Clone(e.Names)
	c.Notes = slices.Clone(e.Notes)
	c.Appearances = slices.Clone(e.Appearances)
	c.Events = slices.Clone(e.Events)
	c.forms = slices.Clone(e.forms)
	return &c
}
