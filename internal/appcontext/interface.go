// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than the
// concrete app so they can be tested with a mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rollcall"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Client returns the configured rollcall client, creating it lazily.
	Client() (rollcall.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// PeriodGlob returns the pattern used to find period files when a
	// command is given none.
	PeriodGlob() string

	// DatabaseDSN returns the run history database, or "" when runs are
	// not stored.
	DatabaseDSN() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
