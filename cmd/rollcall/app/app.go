// Package app provides the application context and dependency management
// for the rollcall CLI: configuration, logging and the lazily created
// rollcall client shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/rollcall"
	"github.com/agentstation/rollcall/internal/appcontext"
	"github.com/agentstation/rollcall/pkg/errors"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the rollcall application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config
	flags  *flagValues

	// Logger
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client rollcall.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		flags:   &flagValues{},
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// PeriodGlob returns the pattern used when a command is given no files.
func (a *App) PeriodGlob() string {
	return a.config.PeriodGlob
}

// DatabaseDSN returns the run history database.
func (a *App) DatabaseDSN() string {
	return a.config.Database
}

// Client returns the rollcall client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Client() (rollcall.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	c, err := rollcall.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// Shutdown releases application resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.client = nil
	return nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() []rollcall.Option {
	opts := []rollcall.Option{
		rollcall.WithLogger(a.logger),
		rollcall.WithProvenance(a.config.Provenance),
		rollcall.WithStrict(a.config.Strict),
	}
	if a.config.Threshold > 0 {
		opts = append(opts, rollcall.WithThreshold(a.config.Threshold))
	}
	if a.config.Roster != "" {
		opts = append(opts, rollcall.WithRosterFile(a.config.Roster))
	}
	if a.config.Concurrency > 0 {
		opts = append(opts, rollcall.WithConcurrency(a.config.Concurrency))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c rollcall.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
