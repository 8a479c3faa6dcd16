package rollcall

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rollcall/internal/sources"
	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/roster"
)

// config holds the client settings
type config struct {
	threshold   float64
	roster      *roster.Roster
	rosterPath  string
	logger      *zerolog.Logger
	provenance  bool
	strict      bool
	concurrency int
	reader      sources.FileReader
}

func defaultConfig() *config {
	return &config{
		threshold:   constants.DefaultSimilarityThreshold,
		provenance:  true,
		concurrency: constants.MaxConcurrentLoads,
	}
}

// Option is a function that configures a Client
type Option func(*config) error

// WithThreshold sets the name similarity threshold used by the resolver and
// the roster matcher. It must be in (0, 1].
func WithThreshold(threshold float64) Option {
	return func(c *config) error {
		if threshold <= 0 || threshold > 1 {
			return &errors.ValidationError{
				Field:   "threshold",
				Value:   threshold,
				Message: "must be greater than 0 and at most 1",
			}
		}
		c.threshold = threshold
		return nil
	}
}

// WithRoster reconciles every run against the given master roster
func WithRoster(r *roster.Roster) Option {
	return func(c *config) error {
		c.roster = r
		return nil
	}
}

// WithRosterFile loads the master roster from a CSV or YAML file on each
// RunFiles call. WithRoster takes precedence.
func WithRosterFile(path string) Option {
	return func(c *config) error {
		c.rosterPath = path
		return nil
	}
}

// WithLogger sets the logger used for the run
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithProvenance configures whether field provenance is recorded
func WithProvenance(enabled bool) Option {
	return func(c *config) error {
		c.provenance = enabled
		return nil
	}
}

// WithStrict makes Run return an error when any observation matched more
// than one entity. The report is still returned.
func WithStrict(enabled bool) Option {
	return func(c *config) error {
		c.strict = enabled
		return nil
	}
}

// WithConcurrency bounds how many period files are loaded at once
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "concurrency", Value: n, Message: "must be positive"}
		}
		c.concurrency = n
		return nil
	}
}

// WithFileReader sets where RunFiles reads period and roster files from
func WithFileReader(reader sources.FileReader) Option {
	return func(c *config) error {
		c.reader = reader
		return nil
	}
}
