package rollcall

import (
	"context"

	"github.com/agentstation/rollcall/internal/store"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence stores run reports.
type Persistence interface {
	// Save stores a report in the database named by dsn and returns the
	// run ID.
	Save(ctx context.Context, dsn string, report *Report) (string, error)
}

// Save implements Persistence.
func (c *client) Save(ctx context.Context, dsn string, report *Report) (string, error) {
	if report == nil || report.Result == nil {
		return "", &errors.ValidationError{Field: "report", Message: "nothing to save"}
	}
	s, err := store.Open(dsn)
	if err != nil {
		return "", err
	}
	defer s.Close()

	ctx = logging.WithOperation(c.context(ctx), "save")
	run := store.NewRun(report.Result, report.Audit, report.Sources)
	if err := s.SaveRun(ctx, run); err != nil {
		logging.FromContext(logging.WithError(ctx, err)).Error().Str("run", run.ID).Msg("Saving run failed")
		return "", err
	}
	logging.FromContext(ctx).Info().Str("run", run.ID).Msg("Run saved")
	return run.ID, nil
}
