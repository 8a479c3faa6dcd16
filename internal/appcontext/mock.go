package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rollcall"
)

// Mock provides a mock implementation of Interface for testing.
// If a function field is nil, the method returns a default value.
type Mock struct {
	ClientFunc       func() (rollcall.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	PeriodGlobFunc   func() string
	DatabaseDSNFunc  func() string
	VersionFunc      func() string
}

// Client returns a client using the mock function or a default client.
func (m *Mock) Client() (rollcall.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return rollcall.New()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// PeriodGlob returns the pattern using the mock function or "".
func (m *Mock) PeriodGlob() string {
	if m.PeriodGlobFunc != nil {
		return m.PeriodGlobFunc()
	}
	return ""
}

// DatabaseDSN returns the DSN using the mock function or "".
func (m *Mock) DatabaseDSN() string {
	if m.DatabaseDSNFunc != nil {
		return m.DatabaseDSNFunc()
	}
	return ""
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
