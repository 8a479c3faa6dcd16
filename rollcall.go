// Package rollcall reconstructs employee identities from per-period
// attendance extracts. Rows that refer to the same person under a changed
// ID, a reused ID, or a differently written name are merged into one
// entity, metric totals are preserved exactly, and every merge is kept for
// audit.
//
// A minimal run:
//
//	rc, err := rollcall.New(rollcall.WithThreshold(0.85))
//	if err != nil {
//		return err
//	}
//	report, err := rc.RunFiles(ctx, []string{"01.2568.csv", "02.2568.csv"})
package rollcall

import (
	"context"
	"time"

	"github.com/agentstation/rollcall/internal/sources"
	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/logging"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

// Client runs the resolution pipeline: resolve, reconcile against a
// roster, audit.
type Client interface {
	// Run resolves periods that are already loaded. r overrides the
	// configured roster when non-nil.
	Run(ctx context.Context, periods []attendance.Period, r *roster.Roster) (*Report, error)

	// RunFiles loads period files and runs them.
	RunFiles(ctx context.Context, paths []string) (*Report, error)

	// OnMerged registers a callback for every merge of a run
	OnMerged(MergedHook)

	// OnAmbiguous registers a callback for every ambiguous match of a run
	OnAmbiguous(AmbiguousHook)

	Persistence
}

// Report is the outcome of one run.
type Report struct {
	Periods        []attendance.Period    `json:"-" yaml:"-"`
	Sources        []string               `json:"sources,omitempty" yaml:"sources,omitempty"`
	Result         *resolver.Result       `json:"result" yaml:"result"`
	Reconciliation *roster.Reconciliation `json:"reconciliation,omitempty" yaml:"reconciliation,omitempty"`
	Audit          *audit.Report          `json:"audit" yaml:"audit"`
}

// client is the internal implementation of the Client interface
type client struct {
	config *config
	loader *sources.Loader
	hooks  *hooks
}

// New creates a new Client with the given options
func New(opts ...Option) (Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &client{
		config: cfg,
		loader: sources.NewLoader(cfg.reader, sources.WithConcurrency(cfg.concurrency)),
		hooks:  newHooks(),
	}, nil
}

func (c *client) OnMerged(fn MergedHook) {
	c.hooks.OnMerged(fn)
}

func (c *client) OnAmbiguous(fn AmbiguousHook) {
	c.hooks.OnAmbiguous(fn)
}

func (c *client) context(ctx context.Context) context.Context {
	if c.config.logger != nil {
		return logging.WithLogger(ctx, c.config.logger)
	}
	return ctx
}

// RunFiles implements Client.
func (c *client) RunFiles(ctx context.Context, paths []string) (*Report, error) {
	ctx = c.context(ctx)
	periods, err := c.loader.LoadPeriods(ctx, paths)
	if err != nil {
		return nil, err
	}

	r := c.config.roster
	if r == nil && c.config.rosterPath != "" {
		if r, err = c.loader.LoadRoster(ctx, c.config.rosterPath); err != nil {
			return nil, err
		}
	}

	report, err := c.Run(ctx, periods, r)
	if err != nil {
		return nil, err
	}
	report.Sources = paths
	return report, nil
}

// Run implements Client.
func (c *client) Run(ctx context.Context, periods []attendance.Period, r *roster.Roster) (*Report, error) {
	ctx = logging.WithFields(c.context(ctx), map[string]any{
		"threshold": c.config.threshold,
		"strict":    c.config.strict,
	})
	logger := logging.FromContext(ctx)
	start := time.Now()

	if r == nil {
		r = c.config.roster
	}

	res, err := resolver.New(
		resolver.WithThreshold(c.config.threshold),
		resolver.WithProvenance(c.config.provenance),
	)
	if err != nil {
		return nil, err
	}
	result, err := res.Resolve(ctx, periods)
	if err != nil {
		return nil, err
	}
	c.hooks.trigger(result)

	report := &Report{Periods: periods, Result: result}
	if r.Len() > 0 {
		m, err := roster.NewMatcher(r, roster.WithThreshold(c.config.threshold))
		if err != nil {
			return nil, err
		}
		report.Reconciliation = m.MatchAll(ctx, result.Entities)

		// downstream views carry the roster's names
		canonical := *result
		canonical.Entities = roster.Apply(result.Entities, report.Reconciliation)
		result = &canonical
		report.Result = result
	}
	report.Audit = audit.Build(periods, result, report.Reconciliation)

	if c.config.strict && len(result.Ambiguities) > 0 {
		return report, result.AmbiguityErrors()
	}

	logger.Info().
		Int("entities", len(result.Entities)).
		Int("suspicious", len(report.Audit.Suspicious)).
		Dur("duration", time.Since(start)).
		Msg("Run complete")
	return report, nil
}
