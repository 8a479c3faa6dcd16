// Package attendance defines the per-period observations consumed by the
// identity resolution engine and the metric vector they carry.
package attendance

import (
	"fmt"
	"sort"

	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/names"
)

// Observation is one row of one period's attendance extract.
// Observations are immutable once produced.
type Observation struct {
	Period      int      `json:"period" yaml:"period"`
	PeriodLabel string   `json:"period_label" yaml:"period_label"`
	Row         int      `json:"row" yaml:"row"`
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Position    string   `json:"position,omitempty" yaml:"position,omitempty"`
	Department  string   `json:"department,omitempty" yaml:"department,omitempty"`
	PayType     string   `json:"pay_type,omitempty" yaml:"pay_type,omitempty"`
	Metrics     Metrics  `json:"metrics" yaml:"metrics"`
	Notes       []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Components parses the raw name of the observation.
func (o Observation) Components() names.Components {
	return names.Parse(o.Name)
}

// String returns a short description used in logs and audit output.
func (o Observation) String() string {
	return fmt.Sprintf("%s row %d [%s] %s", o.PeriodLabel, o.Row, o.ID, o.Name)
}

// NewObservation builds an observation, deriving notes from the name field.
func NewObservation(period int, label string, row int, id, name string, metrics Metrics) Observation {
	obs := Observation{
		Period:      period,
		PeriodLabel: label,
		Row:         row,
		ID:          id,
		Name:        name,
		Metrics:     metrics,
	}
	if note := names.Parse(name).Note; note != "" {
		obs.Notes = []string{note}
	}
	return obs
}

// Period is one reporting period's set of observations, in row order.
type Period struct {
	Ordinal      int           `json:"ordinal" yaml:"ordinal"`
	Label        string        `json:"label" yaml:"label"`
	Source       string        `json:"source,omitempty" yaml:"source,omitempty"`
	Observations []Observation `json:"observations" yaml:"observations"`
}

// Totals returns the metric sum of every observation in the period.
func (p Period) Totals() Metrics {
	var total Metrics
	for _, o := range p.Observations {
		total = total.Add(o.Metrics)
	}
	return total
}

// SortPeriods orders periods chronologically by ordinal.
func SortPeriods(periods []Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Ordinal < periods[j].Ordinal
	})
}

// ValidateOrder checks that ordinals are strictly increasing.
func ValidateOrder(periods []Period) error {
	for i := 1; i < len(periods); i++ {
		if periods[i].Ordinal <= periods[i-1].Ordinal {
			return &errors.ValidationError{
				Field:   "periods",
				Value:   periods[i].Label,
				Message: fmt.Sprintf("period %q (ordinal %d) does not follow %q (ordinal %d)", periods[i].Label, periods[i].Ordinal, periods[i-1].Label, periods[i-1].Ordinal),
			}
		}
	}
	return nil
}

// Totals returns the metric sum across all periods.
func Totals(periods []Period) Metrics {
	var total Metrics
	for _, p := range periods {
		total = total.Add(p.Totals())
	}
	return total
}
