package audit

import (
	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/resolver"
)

// PeriodTotals is the raw metric total of one input period.
type PeriodTotals struct {
	Period       resolver.PeriodRef `json:"period" yaml:"period"`
	Source       string             `json:"source,omitempty" yaml:"source,omitempty"`
	Observations int                `json:"observations" yaml:"observations"`
	Totals       attendance.Metrics `json:"totals" yaml:"totals"`
}

// Traceback ties output totals back to the input periods.
type Traceback struct {
	Periods      []PeriodTotals     `json:"periods" yaml:"periods"`
	InputTotals  attendance.Metrics `json:"input_totals" yaml:"input_totals"`
	OutputTotals attendance.Metrics `json:"output_totals" yaml:"output_totals"`
	Observations int                `json:"observations" yaml:"observations"`
	Entities     int                `json:"entities" yaml:"entities"`
	Balanced     bool               `json:"balanced" yaml:"balanced"`
}

// NewTraceback computes per-period and overall totals.
func NewTraceback(periods []attendance.Period, result *resolver.Result) Traceback {
	tb := Traceback{
		InputTotals:  attendance.Totals(periods),
		OutputTotals: result.OutputTotals(),
		Entities:     len(result.Entities),
	}
	for _, p := range periods {
		tb.Periods = append(tb.Periods, PeriodTotals{
			Period:       resolver.PeriodRef{Ordinal: p.Ordinal, Label: p.Label},
			Source:       p.Source,
			Observations: len(p.Observations),
			Totals:       p.Totals(),
		})
		tb.Observations += len(p.Observations)
	}
	tb.Balanced = resolver.CheckConservation(tb.InputTotals, result.Entities) == nil
	return tb
}
