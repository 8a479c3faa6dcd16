package resolver

import (
	"fmt"
	"math"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
)

// Totals sums metrics across entities.
func Totals(entities []*Entity) attendance.Metrics {
	var total attendance.Metrics
	for _, e := range entities {
		total = total.Add(e.Metrics)
	}
	return total
}

// CheckConservation verifies that every metric total over the entities
// equals the total over the input observations.
func CheckConservation(input attendance.Metrics, entities []*Entity) error {
	output := Totals(entities)
	var details []string
	for _, c := range attendance.Categories() {
		in, out := input.Get(c), output.Get(c)
		if math.Abs(in-out) > constants.ConservationTolerance*math.Max(1, math.Abs(in)) {
			details = append(details, fmt.Sprintf("%s: input %g, output %g", c, in, out))
		}
	}
	if len(details) > 0 {
		return errors.NewInvariantError("conservation", details...)
	}
	return nil
}
