// Package alerts provides status notifications printed after a command
// runs: what was resolved, and what needs review.
package alerts

import (
	"fmt"
	"io"
	"time"

	"github.com/agentstation/rollcall"
	"github.com/agentstation/rollcall/pkg/attendance"
)

// Alert represents a status notification.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp time.Time
	Err       error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// FromReport summarizes a run as alerts: one success line, then a
// warning per kind of problem and an error when totals do not balance.
func FromReport(report *rollcall.Report) []*Alert {
	if report == nil || report.Result == nil {
		return nil
	}
	result := report.Result
	out := []*Alert{NewSuccess(fmt.Sprintf("Resolved %d observations into %d entities",
		result.Metadata.Stats.ObservationsProcessed, len(result.Entities)))}

	if n := len(result.Ambiguities); n > 0 {
		a := NewWarning(fmt.Sprintf("%d ambiguous matches kept as new entities", n))
		for _, amb := range result.Ambiguities {
			a.WithDetails(fmt.Sprintf("%s row %d %s: %v", amb.Observation.PeriodLabel, amb.Observation.Row, amb.Observation.Name, amb.Candidates))
		}
		out = append(out, a)
	}
	if rec := report.Reconciliation; rec != nil && len(rec.Collisions) > 0 {
		a := NewWarning(fmt.Sprintf("%d roster records claimed by more than one entity", len(rec.Collisions)))
		for _, c := range rec.Collisions {
			a.WithDetails(fmt.Sprintf("%s: %v", c.RecordID, c.Entities))
		}
		out = append(out, a)
	}
	if report.Audit != nil && !report.Audit.Traceback.Balanced {
		tb := report.Audit.Traceback
		out = append(out, NewError("Output metric totals differ from input totals").WithDetails(
			fmt.Sprintf("%s: input %g, output %g", attendance.WorkDays.Name(),
				tb.InputTotals.Get(attendance.WorkDays), tb.OutputTotals.Get(attendance.WorkDays))))
	}
	return out
}

// Writer handles alert output to different formats and destinations.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// NewWriterTo creates a Writer that writes plain lines to an io.Writer.
func NewWriterTo(w io.Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		_, err := fmt.Fprintln(w, alert.String())
		return err
	})
}

// WriteAll writes every alert, stopping at the first error.
func WriteAll(w Writer, alerts []*Alert) error {
	for _, a := range alerts {
		if err := w.WriteAlert(a); err != nil {
			return err
		}
	}
	return nil
}
